package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type SortKey string

const (
	SortByName   SortKey = "name"
	SortByPrice  SortKey = "price"
	SortByRating SortKey = "rating"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByName, SortByPrice, SortByRating:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// DefaultDirection is the direction a key sorts in when none is given:
// best rated first, otherwise ascending.
func (k SortKey) DefaultDirection() SortDirection {
	if k == SortByRating {
		return Descending
	}
	return Ascending
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case Ascending, Descending:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// PriceRange bounds are inclusive on both ends.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultPriceRange is wide enough to mean "no price filter".
var DefaultPriceRange = PriceRange{Min: 0, Max: 10000}

func (r PriceRange) IsDefault() bool {
	return r == DefaultPriceRange
}

// Finite replaces a NaN or infinite bound with the matching default bound.
func (r PriceRange) Finite() PriceRange {
	if math.IsNaN(r.Min) || math.IsInf(r.Min, 0) {
		r.Min = DefaultPriceRange.Min
	}
	if math.IsNaN(r.Max) || math.IsInf(r.Max, 0) {
		r.Max = DefaultPriceRange.Max
	}
	return r
}

// ParsePriceBound reads one price bound. NaN and infinities are rejected.
func ParsePriceBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("price bound %q must be a number", s)
	}
	return v, nil
}

type PricePreset struct {
	Label string     `json:"label"`
	Range PriceRange `json:"range"`
}

// PricePresets are the quick picks offered by the filter sheet.
var PricePresets = []PricePreset{
	{Label: "$<25", Range: PriceRange{Min: 0, Max: 25}},
	{Label: "$25–100", Range: PriceRange{Min: 25, Max: 100}},
	{Label: "$100–500", Range: PriceRange{Min: 100, Max: 500}},
	{Label: "$500–10000", Range: PriceRange{Min: 500, Max: 10000}},
}

// QueryState is the listing's ephemeral filter/search/sort input. It is
// rebuilt whenever a listing is opened and never persisted.
type QueryState struct {
	SearchText     string        `json:"search_text"`
	CategoryFilter string        `json:"category,omitempty"` // empty means unset
	PriceRange     PriceRange    `json:"price_range"`
	SortKey        SortKey       `json:"sort"`
	SortDirection  SortDirection `json:"order"`
}

func DefaultQueryState() QueryState {
	return QueryState{
		PriceRange:    DefaultPriceRange,
		SortKey:       SortByPrice,
		SortDirection: Ascending,
	}
}
