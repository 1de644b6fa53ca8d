package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/food/internal/models"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

// ListRecipeTitles mocks the ListRecipeTitles method
func (m *MockRecipeService) ListRecipeTitles(ctx context.Context) ([]models.RecipeListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecipeListing), args.Error(1)
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeService) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// MockPinger is a mock database health check
type MockPinger struct {
	mock.Mock
}

// HealthCheck mocks the HealthCheck method
func (m *MockPinger) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
