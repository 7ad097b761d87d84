package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Manubolla/Dummyshop/internal/cart/domain"
	"github.com/Manubolla/Dummyshop/internal/cart/repository"
	catalog "github.com/Manubolla/Dummyshop/internal/catalog/domain"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
	"github.com/Manubolla/Dummyshop/internal/platform/metrics"
	"github.com/google/uuid"
)

var (
	ErrPersistenceFailure = errors.New("cart state could not be persisted")
	ErrEmptyCart          = errors.New("cart is empty")
)

// CheckoutListener is told about every completed checkout.
type CheckoutListener interface {
	OnCheckout(ctx context.Context, receipt domain.Receipt)
}

type CartService interface {
	AddItem(ctx context.Context, product catalog.Product) (domain.CartState, error)
	RemoveItem(ctx context.Context, productID int) (domain.CartState, error)
	GetQuantity(productID int) int
	ClearCart(ctx context.Context) (domain.CartState, error)
	Cart() domain.CartState
	Checkout(ctx context.Context) (*domain.Receipt, error)
}

type cartServiceImpl struct {
	mu       sync.RWMutex
	state    domain.CartState
	repo     repository.StateRepository
	metrics  *metrics.Metrics
	listener CheckoutListener
	now      func() time.Time
}

// NewCartService restores the persisted cart once. Afterwards every mutation
// writes the whole cart back. A failed write keeps the in-memory change and is
// reported as ErrPersistenceFailure.
func NewCartService(ctx context.Context, repo repository.StateRepository, m *metrics.Metrics, listener CheckoutListener) (CartService, error) {
	state, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore cart: %w", err)
	}
	if state.Items == nil {
		state = domain.NewCartState()
	}
	return &cartServiceImpl{
		state:    state,
		repo:     repo,
		metrics:  m,
		listener: listener,
		now:      time.Now,
	}, nil
}

// AddItem adds one unit and keeps the given product as the entry's snapshot.
// At or above the product's stock it does nothing and returns no error: the
// caller is expected to have checked stock already.
func (s *cartServiceImpl) AddItem(ctx context.Context, product catalog.Product) (domain.CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state.Quantity(product.ID)
	if current >= product.Stock {
		logger.Debug("cart: add rejected at stock ceiling", "product_id", product.ID, "stock", product.Stock)
		s.count("add", "rejected")
		return s.state.Clone(), nil
	}

	s.state.Items[product.ID] = domain.CartEntry{Product: product, Quantity: current + 1}
	return s.persistLocked(ctx, "add")
}

// RemoveItem takes one unit away and drops the entry when it reaches zero.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, productID int) (domain.CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.state.Items[productID]
	if !ok {
		s.count("remove", "absent")
		return s.state.Clone(), nil
	}

	entry.Quantity--
	if entry.Quantity <= 0 {
		delete(s.state.Items, productID)
	} else {
		s.state.Items[productID] = entry
	}
	return s.persistLocked(ctx, "remove")
}

func (s *cartServiceImpl) GetQuantity(productID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Quantity(productID)
}

func (s *cartServiceImpl) ClearCart(ctx context.Context) (domain.CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.NewCartState()
	return s.persistLocked(ctx, "clear")
}

func (s *cartServiceImpl) Cart() domain.CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Checkout empties the cart and hands a receipt to the listener. Nothing about
// the order is stored.
func (s *cartServiceImpl) Checkout(ctx context.Context) (*domain.Receipt, error) {
	s.mu.Lock()
	if len(s.state.Items) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}

	receipt := domain.Receipt{
		ID:            uuid.NewString(),
		Items:         s.state.Entries(),
		TotalQuantity: s.state.TotalQuantity(),
		TotalPrice:    s.state.TotalPrice(),
		PlacedAt:      s.now().UTC(),
	}
	s.state = domain.NewCartState()
	_, persistErr := s.persistLocked(ctx, "checkout")
	s.mu.Unlock()

	logger.Info("cart: checkout", "receipt_id", receipt.ID, "items", receipt.TotalQuantity, "total", receipt.TotalPrice.StringFixed(2))
	if s.listener != nil {
		s.listener.OnCheckout(ctx, receipt)
	}
	return &receipt, persistErr
}

// persistLocked must be called with mu held.
func (s *cartServiceImpl) persistLocked(ctx context.Context, op string) (domain.CartState, error) {
	snapshot := s.state.Clone()
	if err := s.repo.Save(ctx, snapshot); err != nil {
		logger.Warn("cart: persist failed, keeping in-memory state", "op", op, "err", err)
		s.count(op, "persist_failed")
		return snapshot, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	s.count(op, "ok")
	return snapshot, nil
}

func (s *cartServiceImpl) count(op, result string) {
	if s.metrics != nil {
		s.metrics.CartMutations.WithLabelValues(op, result).Inc()
	}
}
