package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	cartservice "github.com/Manubolla/Dummyshop/internal/cart/service"
	catalogservice "github.com/Manubolla/Dummyshop/internal/catalog/service"
	favoritesservice "github.com/Manubolla/Dummyshop/internal/favorites/service"
	listing "github.com/Manubolla/Dummyshop/internal/listing/domain"
	listingservice "github.com/Manubolla/Dummyshop/internal/listing/service"
)

const help = `commands:
  search <text>             filter titles (debounced)
  category <slug|all>       filter by category
  price <min> <max>         filter by price, "price reset" clears, "price preset <n>" picks a preset
  sort <name|price|rating> [asc|desc]
  list                      show the current view
  add <id> | remove <id>    change the cart
  cart | clear | checkout
  fav <id> | favs           toggle or list favorites
  reload | help | quit`

var errQuit = errors.New("quit")

type shell struct {
	session   *listingservice.Session
	catalog   catalogservice.CatalogService
	cart      cartservice.CartService
	favorites favoritesservice.FavoritesService

	mu  sync.Mutex
	out io.Writer
}

func (s *shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// run reads one command per line until quit or EOF.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	s.printf("> ")
	for scanner.Scan() {
		err := s.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			s.printf("error: %v\n", err)
		}
		s.printf("> ")
	}
	return scanner.Err()
}

func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help":
		s.printf("%s\n", help)
	case "search":
		text := ""
		if len(args) > 0 {
			// everything after the first space, untrimmed
			_, text, _ = strings.Cut(strings.TrimLeft(line, " \t"), " ")
		}
		s.session.SetSearchText(text)
	case "category":
		if len(args) != 1 {
			return errors.New("usage: category <slug|all>")
		}
		if args[0] == "all" {
			args[0] = ""
		}
		s.session.SetCategory(args[0])
	case "price":
		return s.price(args)
	case "sort":
		return s.sort(ctx, args)
	case "list":
		s.session.FlushSearch()
		s.printList()
	case "add", "remove", "fav":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <id>", cmd)
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("not a product id: %q", args[0])
		}
		return s.mutate(ctx, cmd, id)
	case "cart":
		s.printCart()
	case "clear":
		_, err := s.cart.ClearCart(ctx)
		s.printCart()
		return err
	case "checkout":
		receipt, err := s.cart.Checkout(ctx)
		if errors.Is(err, cartservice.ErrEmptyCart) {
			return err
		}
		if receipt != nil {
			s.printf("order %s placed: %d items, $%s\n", receipt.ID, receipt.TotalQuantity, receipt.TotalPrice.StringFixed(2))
		}
		return err
	case "favs":
		s.printf("favorites: %v\n", s.favorites.List())
	case "reload":
		return s.session.Load(ctx)
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func (s *shell) price(args []string) error {
	switch {
	case len(args) == 1 && args[0] == "reset":
		s.session.SetPriceRange(listing.DefaultPriceRange)
		return nil
	case len(args) == 2 && args[0] == "preset":
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 || n > len(listing.PricePresets) {
			return fmt.Errorf("preset must be 1..%d", len(listing.PricePresets))
		}
		s.session.SetPriceRange(listing.PricePresets[n-1].Range)
		return nil
	case len(args) == 2:
		lo, errLo := listing.ParsePriceBound(args[0])
		hi, errHi := listing.ParsePriceBound(args[1])
		if errLo != nil || errHi != nil {
			return errors.New("usage: price <min> <max>")
		}
		s.session.SetPriceRange(listing.PriceRange{Min: lo, Max: hi})
		return nil
	}
	return errors.New("usage: price <min> <max> | price reset | price preset <n>")
}

func (s *shell) sort(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: sort <name|price|rating> [asc|desc]")
	}
	key, err := listing.ParseSortKey(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", favoritesservice.ErrInvalidSortKey, err)
	}
	dir := key.DefaultDirection()
	if len(args) == 2 {
		d, err := listing.ParseSortDirection(args[1])
		if err != nil {
			return err
		}
		dir = d
	}
	_, err = s.favorites.SetSortPreference(ctx, string(key))
	s.session.SetSort(key, dir)
	return err
}

func (s *shell) mutate(ctx context.Context, cmd string, id int) error {
	switch cmd {
	case "add":
		product, err := s.catalog.GetProductDetails(ctx, id)
		if err != nil {
			return err
		}
		if s.cart.GetQuantity(id) >= product.Stock {
			s.printf("%s: no more stock\n", product.Title)
			return nil
		}
		_, err = s.cart.AddItem(ctx, *product)
		s.printCart()
		return err
	case "remove":
		_, err := s.cart.RemoveItem(ctx, id)
		s.printCart()
		return err
	default:
		_, err := s.favorites.Toggle(ctx, id)
		s.printf("favorite %d: %t\n", id, s.favorites.IsFavorite(id))
		return err
	}
}

func (s *shell) printList() {
	snap := s.session.Snapshot()
	switch snap.State {
	case listingservice.StateLoading, listingservice.StateIdle:
		s.printf("loading...\n")
		return
	case listingservice.StateFailed:
		s.printf("catalog unavailable: %v (try reload)\n", snap.Err)
		return
	}

	s.printf("%d products, %d filters active, sorted by %s %s\n",
		len(snap.Products), snap.ActiveFilterCount, snap.Query.SortKey, snap.Query.SortDirection)
	for _, p := range snap.Products {
		mark := " "
		if s.favorites.IsFavorite(p.ID) {
			mark = "*"
		}
		s.printf("%s %4d  %-32s %10s  %.1f  %-14s stock %d\n", mark, p.ID, p.Title, p.FormattedPrice(), p.Rating, p.Category, p.Stock)
	}
}

func (s *shell) printCart() {
	state := s.cart.Cart()
	for _, e := range state.Entries() {
		s.printf("  %4d  %-32s x%d  $%s\n", e.Product.ID, e.Product.Title, e.Quantity, e.LineTotal().StringFixed(2))
	}
	s.printf("cart: %d items, total $%s\n", state.TotalQuantity(), state.TotalPrice().StringFixed(2))
}
