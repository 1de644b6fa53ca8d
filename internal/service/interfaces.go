package service

import (
	"context"

	"github.com/pageza/food/internal/models"
)

// IRecipeService defines the interface for recipe read operations
type IRecipeService interface {
	ListRecipeTitles(ctx context.Context) ([]models.RecipeListing, error)
	GetRecipe(ctx context.Context, id int64) (*models.Recipe, error)
}
