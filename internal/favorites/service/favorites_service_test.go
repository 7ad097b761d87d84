package service

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	cartdomain "github.com/Manubolla/Dummyshop/internal/cart/domain"
	cartrepo "github.com/Manubolla/Dummyshop/internal/cart/repository"
	"github.com/Manubolla/Dummyshop/internal/favorites/domain"
	"github.com/Manubolla/Dummyshop/internal/favorites/repository"
	"github.com/Manubolla/Dummyshop/internal/favorites/repository/mocks"
	catalog "github.com/Manubolla/Dummyshop/internal/catalog/domain"
	listing "github.com/Manubolla/Dummyshop/internal/listing/domain"
	"github.com/Manubolla/Dummyshop/internal/platform/kvstore"
	"github.com/Manubolla/Dummyshop/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFavoritesService_Toggle(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	svc, err := NewFavoritesService(ctx, repository.NewMemoryRepository(), m)
	require.NoError(t, err)

	state, err := svc.Toggle(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, []int{42}, state.ProductIDs)
	assert.True(t, svc.IsFavorite(42))

	_, err = svc.Toggle(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{42, 7}, svc.List())

	state, err = svc.Toggle(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, []int{7}, state.ProductIDs)
	assert.False(t, svc.IsFavorite(42))
	assert.False(t, svc.IsFavorite(999))

	assert.Equal(t, float64(3), testutil.ToFloat64(m.FavoriteToggles))
}

func TestFavoritesService_ToggleIsAnInvolution(t *testing.T) {
	ctx := context.Background()
	r := rand.New(rand.NewSource(3))
	svc, err := NewFavoritesService(ctx, repository.NewMemoryRepository(), nil)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := svc.Toggle(ctx, r.Intn(20))
		require.NoError(t, err)
	}

	for id := 0; id < 20; id++ {
		before := svc.List()
		_, err := svc.Toggle(ctx, id)
		require.NoError(t, err)
		_, err = svc.Toggle(ctx, id)
		require.NoError(t, err)
		assert.ElementsMatch(t, before, svc.List())
	}
}

func TestFavoritesService_SortPreference(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc, err := NewFavoritesService(ctx, repo, nil)
	require.NoError(t, err)

	assert.Equal(t, listing.SortByPrice, svc.SortPreference())

	key, err := svc.SetSortPreference(ctx, "Rating")
	assert.NoError(t, err)
	assert.Equal(t, listing.SortByRating, key)
	assert.Equal(t, listing.SortByRating, svc.SortPreference())

	_, err = svc.SetSortPreference(ctx, "popularity")
	assert.ErrorIs(t, err, ErrInvalidSortKey)
	assert.Equal(t, listing.SortByRating, svc.SortPreference())

	persisted, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rating", persisted.SortBy)
}

func TestFavoritesService_PersistenceFailureKeepsToggle(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockStateRepository)
	repo.On("Load", mock.Anything).Return(domain.NewFavoritesState(), nil).Once()
	repo.On("Save", mock.Anything, mock.AnythingOfType("domain.FavoritesState")).Return(errors.New("read-only")).Once()

	svc, err := NewFavoritesService(ctx, repo, nil)
	require.NoError(t, err)

	state, err := svc.Toggle(ctx, 5)
	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.Equal(t, []int{5}, state.ProductIDs)
	assert.True(t, svc.IsFavorite(5))
	repo.AssertExpectations(t)
}

func TestFavoritesService_IndependentOfCart(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "shop.db")
	store, closeStore, err := kvstore.Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	defer closeStore()

	favs, err := NewFavoritesService(ctx, repository.NewKVStateRepository(store), nil)
	require.NoError(t, err)
	_, err = favs.Toggle(ctx, 1)
	require.NoError(t, err)

	carts := cartrepo.NewKVStateRepository(store)
	cart := cartdomain.NewCartState()
	cart.Items[1] = cartdomain.CartEntry{Product: catalog.Product{ID: 1, Stock: 1}, Quantity: 1}
	require.NoError(t, carts.Save(ctx, cart))
	require.NoError(t, carts.Save(ctx, cartdomain.NewCartState()))

	reloaded, err := NewFavoritesService(ctx, repository.NewKVStateRepository(store), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, reloaded.List(), "clearing the cart leaves favorites alone")
}
