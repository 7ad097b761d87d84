package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Manubolla/Dummyshop/internal/favorites/domain"
	"github.com/Manubolla/Dummyshop/internal/platform/kvstore"
)

// Namespace is the record key for favorites and the remembered sort. It is
// separate from the cart record, so neither can clobber the other.
const Namespace = "product-store"

type StateRepository interface {
	Load(ctx context.Context) (domain.FavoritesState, error)
	Save(ctx context.Context, state domain.FavoritesState) error
}

type kvStateRepository struct {
	store kvstore.Store
}

func NewKVStateRepository(store kvstore.Store) StateRepository {
	return &kvStateRepository{store: store}
}

func (r *kvStateRepository) Load(ctx context.Context) (domain.FavoritesState, error) {
	payload, err := r.store.Get(ctx, Namespace)
	if errors.Is(err, kvstore.ErrNotFound) {
		return domain.NewFavoritesState(), nil
	}
	if err != nil {
		return domain.FavoritesState{}, fmt.Errorf("load favorites: %w", err)
	}

	var state domain.FavoritesState
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.FavoritesState{}, fmt.Errorf("decode favorites: %w", err)
	}
	if state.ProductIDs == nil {
		state.ProductIDs = []int{}
	}
	if state.SortBy == "" {
		state.SortBy = domain.DefaultSortBy
	}
	return state, nil
}

func (r *kvStateRepository) Save(ctx context.Context, state domain.FavoritesState) error {
	if state.ProductIDs == nil {
		state.ProductIDs = []int{}
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := r.store.Put(ctx, Namespace, payload); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

type MemoryRepository struct {
	mu    sync.Mutex
	state domain.FavoritesState
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: domain.NewFavoritesState()}
}

func (r *MemoryRepository) Load(_ context.Context) (domain.FavoritesState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone(), nil
}

func (r *MemoryRepository) Save(_ context.Context, state domain.FavoritesState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state.Clone()
	return nil
}
