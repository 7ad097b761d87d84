package domain

import (
	"slices"
	"time"

	catalog "github.com/Manubolla/Dummyshop/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

// CartEntry pairs the product snapshot taken at the last add with the held
// quantity. Quantity is at least 1; an emptied entry is removed, not zeroed.
type CartEntry struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (e CartEntry) LineTotal() decimal.Decimal {
	return e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

type CartState struct {
	Items map[int]CartEntry `json:"items"`
}

func NewCartState() CartState {
	return CartState{Items: map[int]CartEntry{}}
}

func (s CartState) Quantity(productID int) int {
	return s.Items[productID].Quantity
}

func (s CartState) TotalQuantity() int {
	total := 0
	for _, e := range s.Items {
		total += e.Quantity
	}
	return total
}

func (s CartState) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Items {
		total = total.Add(e.LineTotal())
	}
	return total
}

// Entries lists the cart ordered by product id.
func (s CartState) Entries() []CartEntry {
	out := make([]CartEntry, 0, len(s.Items))
	for _, e := range s.Items {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b CartEntry) int { return a.Product.ID - b.Product.ID })
	return out
}

func (s CartState) Clone() CartState {
	c := CartState{Items: make(map[int]CartEntry, len(s.Items))}
	for id, e := range s.Items {
		c.Items[id] = e
	}
	return c
}

// Receipt is what checkout hands back. It is not stored anywhere.
type Receipt struct {
	ID            string          `json:"id"`
	Items         []CartEntry     `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PlacedAt      time.Time       `json:"placed_at"`
}
