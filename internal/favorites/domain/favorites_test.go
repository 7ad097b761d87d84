package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFavoritesState_Toggle(t *testing.T) {
	s := NewFavoritesState()
	a := s.Toggle(3).Toggle(1)
	assert.Equal(t, []int{3, 1}, a.ProductIDs)
	assert.Empty(t, s.ProductIDs, "toggle does not mutate the receiver")

	b := a.Toggle(3)
	assert.Equal(t, []int{1}, b.ProductIDs)
	assert.True(t, a.Contains(3))
	assert.False(t, b.Contains(3))
	assert.Equal(t, DefaultSortBy, b.SortBy)
}
