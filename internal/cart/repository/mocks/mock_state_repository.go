package mocks

import (
	"context"

	"github.com/Manubolla/Dummyshop/internal/cart/domain"
	"github.com/stretchr/testify/mock"
)

type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) Load(ctx context.Context) (domain.CartState, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CartState), args.Error(1)
}

func (m *MockStateRepository) Save(ctx context.Context, state domain.CartState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}
