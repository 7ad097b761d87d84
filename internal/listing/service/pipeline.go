package service

import (
	"cmp"
	"slices"
	"strings"

	catalog "github.com/Manubolla/Dummyshop/internal/catalog/domain"
	"github.com/Manubolla/Dummyshop/internal/listing/domain"
	"github.com/shopspring/decimal"
)

// ComputeView narrows products by category, then price, then title search,
// and stable-sorts what is left. The input slice is never modified. Prices
// are compared at two decimals, the precision they are shown with.
func ComputeView(products []catalog.Product, q domain.QueryState) []catalog.Product {
	bounds := q.PriceRange.Finite()
	minPrice := decimal.NewFromFloat(bounds.Min)
	maxPrice := decimal.NewFromFloat(bounds.Max)
	needle := strings.ToLower(q.SearchText)

	view := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if q.CategoryFilter != "" && p.Category != q.CategoryFilter {
			continue
		}
		price := p.Price.Round(2)
		if price.LessThan(minPrice) || price.GreaterThan(maxPrice) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		view = append(view, p)
	}

	compare := comparator(q.SortKey)
	if compare == nil {
		return view
	}
	if q.SortDirection == domain.Descending {
		asc := compare
		compare = func(a, b catalog.Product) int { return asc(b, a) }
	}
	// ties keep their catalog order
	slices.SortStableFunc(view, compare)
	return view
}

func comparator(key domain.SortKey) func(a, b catalog.Product) int {
	switch key {
	case domain.SortByName:
		return func(a, b catalog.Product) int { return strings.Compare(a.Title, b.Title) }
	case domain.SortByPrice:
		return func(a, b catalog.Product) int { return a.Price.Cmp(b.Price) }
	case domain.SortByRating:
		return func(a, b catalog.Product) int { return cmp.Compare(a.Rating, b.Rating) }
	}
	return nil
}

// ActiveFilterCount is the badge number: one for a category, one for a
// non-default price range. Search and sort do not count.
func ActiveFilterCount(q domain.QueryState) int {
	n := 0
	if q.CategoryFilter != "" {
		n++
	}
	if !q.PriceRange.IsDefault() {
		n++
	}
	return n
}
