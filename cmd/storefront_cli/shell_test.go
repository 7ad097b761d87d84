package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	cartrepo "github.com/Manubolla/Dummyshop/internal/cart/repository"
	cartservice "github.com/Manubolla/Dummyshop/internal/cart/service"
	catalog "github.com/Manubolla/Dummyshop/internal/catalog/domain"
	catalogservice "github.com/Manubolla/Dummyshop/internal/catalog/service"
	"github.com/Manubolla/Dummyshop/internal/catalog/service/mocks"
	favoritesrepo "github.com/Manubolla/Dummyshop/internal/favorites/repository"
	favoritesservice "github.com/Manubolla/Dummyshop/internal/favorites/service"
	listing "github.com/Manubolla/Dummyshop/internal/listing/domain"
	listingservice "github.com/Manubolla/Dummyshop/internal/listing/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var products = []catalog.Product{
	{ID: 1, Title: "Shirt", Category: "apparel", Price: decimal.RequireFromString("9.99"), Rating: 4.1, Stock: 2},
	{ID: 2, Title: "Hat", Category: "apparel", Price: decimal.RequireFromString("19.99"), Rating: 3.0, Stock: 0},
	{ID: 3, Title: "Laptop", Category: "electronics", Price: decimal.RequireFromString("999.00"), Rating: 4.8, Stock: 4},
}

func newShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()

	cs := new(mocks.MockCatalogService)
	cs.On("LoadListing", mock.Anything).Return(&catalogservice.Listing{Products: products}, nil)
	for i := range products {
		cs.On("GetProductDetails", mock.Anything, products[i].ID).Return(&products[i], nil)
	}

	cart, err := cartservice.NewCartService(ctx, cartrepo.NewMemoryRepository(), nil, nil)
	require.NoError(t, err)
	favs, err := favoritesservice.NewFavoritesService(ctx, favoritesrepo.NewMemoryRepository(), nil)
	require.NoError(t, err)

	session := listingservice.NewSession(cs, time.Hour, listing.DefaultQueryState())
	t.Cleanup(session.Close)
	require.NoError(t, session.Load(ctx))

	out := &bytes.Buffer{}
	return &shell{session: session, catalog: cs, cart: cart, favorites: favs, out: out}, out
}

func TestShell_ListingCommands(t *testing.T) {
	sh, out := newShell(t)

	err := sh.run(context.Background(), strings.NewReader("category apparel\nsort name desc\nlist\nquit\n"))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "2 products, 1 filters active, sorted by name desc")
	assert.Less(t, strings.Index(text, "Shirt"), strings.Index(text, "Hat"))
	assert.NotContains(t, text, "Laptop")
	assert.Equal(t, listing.SortByName, sh.favorites.SortPreference())
}

func TestShell_SearchFlushesOnList(t *testing.T) {
	sh, out := newShell(t)

	require.NoError(t, sh.run(context.Background(), strings.NewReader("search lap\nlist\n")))
	assert.Contains(t, out.String(), "1 products")
	assert.Contains(t, out.String(), "Laptop")
}

func TestShell_CartCommands(t *testing.T) {
	sh, out := newShell(t)

	input := "add 1\nadd 1\nadd 1\nadd 2\nremove 1\ncheckout\ncheckout\n"
	require.NoError(t, sh.run(context.Background(), strings.NewReader(input)))

	text := out.String()
	assert.Contains(t, text, "Shirt: no more stock")
	assert.Contains(t, text, "Hat: no more stock")
	assert.Contains(t, text, "cart: 2 items, total $19.98")
	assert.Contains(t, text, "placed: 1 items, $9.99")
	assert.Contains(t, text, "error: cart is empty")
	assert.Equal(t, 0, sh.cart.Cart().TotalQuantity())
}

func TestShell_FavoritesAndErrors(t *testing.T) {
	sh, out := newShell(t)

	require.NoError(t, sh.run(context.Background(), strings.NewReader("fav 3\nfavs\nadd x\nprice 1\nsort popularity\nbogus\n")))

	text := out.String()
	assert.Contains(t, text, "favorite 3: true")
	assert.Contains(t, text, "favorites: [3]")
	assert.Contains(t, text, `error: not a product id: "x"`)
	assert.Contains(t, text, "error: usage: price")
	assert.Contains(t, text, "error: invalid sort key")
	assert.Contains(t, text, `error: unknown command "bogus"`)
}

func TestShell_PricePreset(t *testing.T) {
	sh, _ := newShell(t)

	require.NoError(t, sh.exec(context.Background(), "price preset 4"))
	assert.Equal(t, listing.PricePresets[3].Range, sh.session.Snapshot().Query.PriceRange)
	assert.Error(t, sh.exec(context.Background(), "price preset 9"))

	require.NoError(t, sh.exec(context.Background(), "price reset"))
	assert.Equal(t, 0, sh.session.Snapshot().ActiveFilterCount)
}

func TestShell_RejectsNonFinitePrices(t *testing.T) {
	sh, _ := newShell(t)

	for _, line := range []string{"price nan 10", "price 0 inf", "price -Inf 5"} {
		assert.NotPanics(t, func() {
			assert.Error(t, sh.exec(context.Background(), line), line)
		})
	}
	assert.Equal(t, listing.DefaultPriceRange, sh.session.Snapshot().Query.PriceRange)
}

func TestShell_SortRatingDefaultsToBestFirst(t *testing.T) {
	sh, _ := newShell(t)

	require.NoError(t, sh.exec(context.Background(), "sort rating"))
	q := sh.session.Snapshot().Query
	assert.Equal(t, listing.Descending, q.SortDirection)

	view := sh.session.View()
	require.Len(t, view, 3)
	assert.Equal(t, 3, view[0].ID)

	require.NoError(t, sh.exec(context.Background(), "sort rating asc"))
	assert.Equal(t, 2, sh.session.View()[0].ID)
}
