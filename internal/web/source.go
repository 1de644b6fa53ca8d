// Package web renders the recipe catalogue as HTML pages.
package web

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/pageza/food/internal/models"
	"github.com/pageza/food/internal/service"
)

// RecipeSource is where pages get their data: the JSON API through Client, or the database
// directly through service.RecipeService.
type RecipeSource interface {
	ListRecipeTitles(ctx context.Context) ([]models.RecipeListing, error)
	GetRecipe(ctx context.Context, id int64) (*models.Recipe, error)
}

var _ RecipeSource = (*service.RecipeService)(nil)

// Slug is the path segment of a recipe page: the id, a dash, and the kebab-cased title.
func Slug(id int64, title string) string {
	return fmt.Sprintf("%d-%s", id, strcase.ToKebab(title))
}

// RecipePath is the page URL of a listed recipe.
func RecipePath(listing models.RecipeListing) string {
	return "/recipes/" + Slug(listing.ID, listing.Title)
}

// slugID extracts the id prefix of slug. The title part is checked by the caller once the
// recipe has been loaded.
func slugID(slug string) (int64, bool) {
	idPart, _, found := strings.Cut(slug, "-")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
