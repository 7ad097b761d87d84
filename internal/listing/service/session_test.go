package service

import (
	"context"
	"sync"
	"testing"
	"time"

	catalog "github.com/Manubolla/Dummyshop/internal/catalog/domain"
	catalogrepo "github.com/Manubolla/Dummyshop/internal/catalog/repository"
	catalogservice "github.com/Manubolla/Dummyshop/internal/catalog/service"
	"github.com/Manubolla/Dummyshop/internal/catalog/service/mocks"
	"github.com/Manubolla/Dummyshop/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func loadedSession(t *testing.T, debounce time.Duration) *Session {
	t.Helper()
	cs := new(mocks.MockCatalogService)
	cs.On("LoadListing", mock.Anything).Return(&catalogservice.Listing{
		Products:   fixture,
		Categories: []catalog.Category{{Slug: "apparel"}, {Slug: "beauty"}, {Slug: "electronics"}},
	}, nil).Once()

	s := NewSession(cs, debounce, domain.DefaultQueryState())
	require.NoError(t, s.Load(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func TestSession_LoadAndQuery(t *testing.T) {
	s := loadedSession(t, time.Hour)

	snap := s.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	assert.Len(t, snap.Categories, 3)
	assert.Equal(t, []int{1, 6, 2, 4, 5, 3}, ids(s.View()))

	s.ApplyFilters("apparel", domain.PriceRange{Min: 0, Max: 20})
	assert.Equal(t, []int{1, 2}, ids(s.View()))
	assert.Equal(t, 2, s.Snapshot().ActiveFilterCount)

	s.SetSort(domain.SortByName, domain.Ascending)
	assert.Equal(t, []int{2, 1}, ids(s.View()))

	s.SetCategory("")
	s.SetPriceRange(domain.DefaultPriceRange)
	assert.Equal(t, 0, s.Snapshot().ActiveFilterCount)
	assert.Len(t, s.View(), len(fixture))
}

func TestSession_SearchIsDebounced(t *testing.T) {
	s := loadedSession(t, 20*time.Millisecond)

	s.SetSearchText("s")
	s.SetSearchText("sh")
	assert.Len(t, s.View(), len(fixture), "not applied before the delay")

	assert.Eventually(t, func() bool { return len(s.View()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "sh", s.Snapshot().Query.SearchText)
}

func TestSession_FlushSearch(t *testing.T) {
	s := loadedSession(t, time.Hour)

	s.SetSearchText("laptop")
	s.FlushSearch()
	assert.Equal(t, []int{3}, ids(s.View()))
}

func TestSession_OnChange(t *testing.T) {
	s := loadedSession(t, time.Hour)

	var mu sync.Mutex
	var counts []int
	s.OnChange(func(snap Snapshot) {
		mu.Lock()
		counts = append(counts, len(snap.Products))
		mu.Unlock()
	})

	s.SetCategory("beauty")
	s.SetCategory("electronics")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, counts)
}

func TestSession_LoadFailureLeavesNotLoaded(t *testing.T) {
	cs := new(mocks.MockCatalogService)
	cs.On("LoadListing", mock.Anything).Return(nil, catalogrepo.ErrNetworkFailure).Once()

	s := NewSession(cs, time.Hour, domain.DefaultQueryState())
	defer s.Close()

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, catalogrepo.ErrNetworkFailure)

	snap := s.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.ErrorIs(t, snap.Err, catalogrepo.ErrNetworkFailure)
	assert.Empty(t, s.View())

	// query changes while failed keep the view empty
	s.SetCategory("apparel")
	assert.Empty(t, s.View())

	cs.On("LoadListing", mock.Anything).Return(&catalogservice.Listing{Products: fixture}, nil).Once()
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, []int{1, 2, 5}, ids(s.View()))
	cs.AssertExpectations(t)
}

func TestSession_LoadAfterCloseIsDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	cs := new(mocks.MockCatalogService)
	cs.On("LoadListing", mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&catalogservice.Listing{Products: fixture}, nil).Once()

	s := NewSession(cs, time.Hour, domain.DefaultQueryState())

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()

	<-started
	assert.Equal(t, StateLoading, s.Snapshot().State)
	s.Close()
	close(release)

	assert.NoError(t, <-done)
	assert.Equal(t, StateLoading, s.Snapshot().State)
	assert.Empty(t, s.View())
}
