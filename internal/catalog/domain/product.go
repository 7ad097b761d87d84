package domain

import "github.com/shopspring/decimal"

// Product is a catalog item as read from the product source. It is never
// mutated after a fetch; the cart keeps copies of it as snapshots.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Thumbnail   string          `json:"thumbnail"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Stock       int             `json:"stock"`
}

// FormattedPrice renders the price the way listing cards show it, e.g. "$9.99".
func (p Product) FormattedPrice() string {
	return "$" + p.Price.StringFixed(2)
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
