package domain

import "slices"

// DefaultSortBy is the listing sort remembered alongside favorites until the
// user picks another one.
const DefaultSortBy = "price"

// FavoritesState is a set of product ids kept in the order they were added.
type FavoritesState struct {
	ProductIDs []int  `json:"favorites"`
	SortBy     string `json:"sortBy"`
}

func NewFavoritesState() FavoritesState {
	return FavoritesState{ProductIDs: []int{}, SortBy: DefaultSortBy}
}

func (s FavoritesState) Contains(productID int) bool {
	return slices.Contains(s.ProductIDs, productID)
}

// Toggle returns the state with productID added when absent and removed when
// present.
func (s FavoritesState) Toggle(productID int) FavoritesState {
	out := s.Clone()
	if i := slices.Index(out.ProductIDs, productID); i >= 0 {
		out.ProductIDs = slices.Delete(out.ProductIDs, i, i+1)
		return out
	}
	out.ProductIDs = append(out.ProductIDs, productID)
	return out
}

func (s FavoritesState) Clone() FavoritesState {
	ids := make([]int, len(s.ProductIDs))
	copy(ids, s.ProductIDs)
	return FavoritesState{ProductIDs: ids, SortBy: s.SortBy}
}
