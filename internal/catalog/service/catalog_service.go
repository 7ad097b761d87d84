package service

import (
	"context"

	"github.com/Manubolla/Dummyshop/internal/catalog/domain"
	"github.com/Manubolla/Dummyshop/internal/catalog/repository"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
	"github.com/Manubolla/Dummyshop/internal/platform/metrics"
	"golang.org/x/sync/errgroup"
)

// Listing is what the listing view needs before it can render.
type Listing struct {
	Products   []domain.Product
	Categories []domain.Category
}

type CatalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetProductDetails(ctx context.Context, productID int) (*domain.Product, error)
	ListProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error)
	LoadListing(ctx context.Context) (*Listing, error)
}

type catalogServiceImpl struct {
	repo    repository.ProductRepository
	metrics *metrics.Metrics
}

// NewCatalogService wraps the product source. Calls are not retried; a failed
// fetch is logged and returned so the caller can stay in its not-loaded state.
func NewCatalogService(repo repository.ProductRepository, m *metrics.Metrics) CatalogService {
	return &catalogServiceImpl{repo: repo, metrics: m}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	s.observe("list_products", err)
	return products, err
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	s.observe("list_categories", err)
	return categories, err
}

func (s *catalogServiceImpl) GetProductDetails(ctx context.Context, productID int) (*domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	s.observe("get_product", err)
	return product, err
}

func (s *catalogServiceImpl) ListProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error) {
	products, err := s.repo.ListProductsByCategory(ctx, slug)
	s.observe("list_by_category", err)
	return products, err
}

// LoadListing fetches products and categories concurrently and fails if either fails.
func (s *catalogServiceImpl) LoadListing(ctx context.Context) (*Listing, error) {
	var listing Listing
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := s.ListProducts(gctx)
		listing.Products = products
		return err
	})
	g.Go(func() error {
		categories, err := s.ListCategories(gctx)
		listing.Categories = categories
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("LoadListing: fetch failed", err)
		return nil, err
	}
	return &listing, nil
}

func (s *catalogServiceImpl) observe(call string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.CatalogFetches.WithLabelValues(call, metrics.Result(err)).Inc()
}
