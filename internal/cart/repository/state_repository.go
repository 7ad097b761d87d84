package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Manubolla/Dummyshop/internal/cart/domain"
	"github.com/Manubolla/Dummyshop/internal/platform/kvstore"
)

// Namespace is the record key the cart lives under.
const Namespace = "cart-store"

type StateRepository interface {
	Load(ctx context.Context) (domain.CartState, error)
	Save(ctx context.Context, state domain.CartState) error
}

type kvStateRepository struct {
	store kvstore.Store
}

func NewKVStateRepository(store kvstore.Store) StateRepository {
	return &kvStateRepository{store: store}
}

// Load returns an empty cart when nothing was ever saved.
func (r *kvStateRepository) Load(ctx context.Context) (domain.CartState, error) {
	payload, err := r.store.Get(ctx, Namespace)
	if errors.Is(err, kvstore.ErrNotFound) {
		return domain.NewCartState(), nil
	}
	if err != nil {
		return domain.CartState{}, fmt.Errorf("load cart: %w", err)
	}

	var state domain.CartState
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.CartState{}, fmt.Errorf("decode cart: %w", err)
	}
	if state.Items == nil {
		state.Items = map[int]domain.CartEntry{}
	}
	return state, nil
}

func (r *kvStateRepository) Save(ctx context.Context, state domain.CartState) error {
	if state.Items == nil {
		state.Items = map[int]domain.CartEntry{}
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.store.Put(ctx, Namespace, payload); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

type MemoryRepository struct {
	mu    sync.Mutex
	state domain.CartState
	saves int
}

// NewMemoryRepository keeps the cart in process memory and never fails.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: domain.NewCartState()}
}

func (r *MemoryRepository) Load(_ context.Context) (domain.CartState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone(), nil
}

func (r *MemoryRepository) Save(_ context.Context, state domain.CartState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state.Clone()
	r.saves++
	return nil
}

// Saves counts Save calls.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
