package mocks

import (
	"context"

	"github.com/Manubolla/Dummyshop/internal/catalog/domain"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error) {
	args := m.Called(ctx, slug)
	if res := args.Get(0); res != nil {
		return res.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}
