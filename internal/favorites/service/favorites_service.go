package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Manubolla/Dummyshop/internal/favorites/domain"
	"github.com/Manubolla/Dummyshop/internal/favorites/repository"
	listing "github.com/Manubolla/Dummyshop/internal/listing/domain"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
	"github.com/Manubolla/Dummyshop/internal/platform/metrics"
)

var (
	ErrPersistenceFailure = errors.New("favorites could not be persisted")
	ErrInvalidSortKey     = errors.New("invalid sort key")
)

type FavoritesService interface {
	Toggle(ctx context.Context, productID int) (domain.FavoritesState, error)
	IsFavorite(productID int) bool
	List() []int
	SortPreference() listing.SortKey
	SetSortPreference(ctx context.Context, key string) (listing.SortKey, error)
}

type favoritesServiceImpl struct {
	mu      sync.RWMutex
	state   domain.FavoritesState
	repo    repository.StateRepository
	metrics *metrics.Metrics
}

// NewFavoritesService restores favorites once and writes them back after every
// change. Like the cart, a failed write keeps the change in memory.
func NewFavoritesService(ctx context.Context, repo repository.StateRepository, m *metrics.Metrics) (FavoritesService, error) {
	state, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore favorites: %w", err)
	}
	return &favoritesServiceImpl{state: state, repo: repo, metrics: m}, nil
}

func (s *favoritesServiceImpl) Toggle(ctx context.Context, productID int) (domain.FavoritesState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.Toggle(productID)
	if s.metrics != nil {
		s.metrics.FavoriteToggles.Inc()
	}
	return s.persistLocked(ctx)
}

func (s *favoritesServiceImpl) IsFavorite(productID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Contains(productID)
}

// List returns favorites in the order they were added.
func (s *favoritesServiceImpl) List() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone().ProductIDs
}

func (s *favoritesServiceImpl) SortPreference() listing.SortKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, err := listing.ParseSortKey(s.state.SortBy)
	if err != nil {
		return listing.SortByPrice
	}
	return key
}

func (s *favoritesServiceImpl) SetSortPreference(ctx context.Context, raw string) (listing.SortKey, error) {
	key, err := listing.ParseSortKey(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSortKey, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SortBy = string(key)
	_, err = s.persistLocked(ctx)
	return key, err
}

// persistLocked must be called with mu held.
func (s *favoritesServiceImpl) persistLocked(ctx context.Context) (domain.FavoritesState, error) {
	snapshot := s.state.Clone()
	if err := s.repo.Save(ctx, snapshot); err != nil {
		logger.Warn("favorites: persist failed, keeping in-memory state", "err", err)
		return snapshot, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return snapshot, nil
}
