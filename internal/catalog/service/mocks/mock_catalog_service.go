package mocks

import (
	"context"

	"github.com/Manubolla/Dummyshop/internal/catalog/domain"
	"github.com/Manubolla/Dummyshop/internal/catalog/service"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) GetProductDetails(ctx context.Context, productID int) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) ListProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error) {
	args := m.Called(ctx, slug)
	if res := args.Get(0); res != nil {
		return res.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) LoadListing(ctx context.Context) (*service.Listing, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*service.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}
