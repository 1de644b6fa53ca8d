package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"gorm.io/gorm"

	"github.com/pageza/food/internal/models"
)

// ErrRecipeNotFound is returned when no readable recipe has the requested id. A recipe whose
// source or meal type row is missing is not readable.
var ErrRecipeNotFound = errors.New("recipe not found")

// DecodeError reports a stored value that could not be converted into its domain type.
type DecodeError struct {
	Column string
	Value  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode column %s from %q: %v", e.Column, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DefaultQueryTimeout bounds a single service call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// RecipeService reads recipes from the catalogue schema
type RecipeService struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// Ensure RecipeService implements IRecipeService
var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance. queryTimeout covers every read of one
// call, including waiting for a pooled connection.
func NewRecipeService(db *gorm.DB, queryTimeout time.Duration) *RecipeService {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &RecipeService{
		db:           db,
		queryTimeout: queryTimeout,
	}
}

// recipeHeader is the single joined row describing a recipe.
type recipeHeader struct {
	Title        string
	Description  string
	MealType     string
	SourceName   string
	SourceURL    *string
	CreationDate string
}

// ListRecipeTitles returns the id and title of every recipe, ordered by id.
func (s *RecipeService) ListRecipeTitles(ctx context.Context) ([]models.RecipeListing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	listing := make([]models.RecipeListing, 0)
	err := s.db.WithContext(ctx).
		Table("recipe").
		Select("id, title").
		Order("id").
		Scan(&listing).Error
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	if listing == nil {
		listing = []models.RecipeListing{}
	}
	return listing, nil
}

// GetRecipe loads the recipe with the given id together with its ingredients and instructions.
func (s *RecipeService) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	db := s.db.WithContext(ctx)

	var header recipeHeader
	err := db.Table("recipe AS r").
		Select("r.title AS title, r.description AS description, mt.type_name AS meal_type, " +
			"s.name AS source_name, s.url AS source_url, CAST(r.creation_date AS TEXT) AS creation_date").
		Joins("JOIN source AS s ON r.source_id = s.id").
		Joins("JOIN meal_type AS mt ON r.meal_type_id = mt.id").
		Where("r.id = ?", id).
		Take(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d: %w", ErrRecipeNotFound, id, err)
		}
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}

	created, err := civil.ParseDate(header.CreationDate)
	if err != nil {
		return nil, &DecodeError{Column: "creation_date", Value: header.CreationDate, Err: err}
	}

	ingredients, err := s.ingredients(db, id)
	if err != nil {
		return nil, err
	}

	instructions, err := s.instructions(db, id)
	if err != nil {
		return nil, err
	}

	return &models.Recipe{
		Title:        header.Title,
		Description:  header.Description,
		MealType:     header.MealType,
		SourceName:   header.SourceName,
		SourceURL:    header.SourceURL,
		Ingredients:  ingredients,
		Instructions: instructions,
		CreationDate: created,
	}, nil
}

// ingredients returns the recipe's ingredient lines in insertion order.
func (s *RecipeService) ingredients(db *gorm.DB, recipeID int64) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0)
	err := db.Table("recipe_ingredient AS ri").
		Select("ri.quantity AS quantity, m.unit AS unit, i.name AS name").
		Joins("JOIN measurement AS m ON ri.measurement_id = m.id").
		Joins("JOIN ingredient AS i ON ri.ingredient_id = i.id").
		Where("ri.recipe_id = ?", recipeID).
		Order("ri.id").
		Scan(&ingredients).Error
	if err != nil {
		return nil, fmt.Errorf("get ingredients of recipe %d: %w", recipeID, err)
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	return ingredients, nil
}

// instructions returns the recipe's step descriptions ordered by step number.
func (s *RecipeService) instructions(db *gorm.DB, recipeID int64) ([]string, error) {
	steps := make([]string, 0)
	err := db.Table("instruction").
		Where("recipe_id = ?", recipeID).
		Order("step_number").
		Pluck("description", &steps).Error
	if err != nil {
		return nil, fmt.Errorf("get instructions of recipe %d: %w", recipeID, err)
	}
	if steps == nil {
		steps = []string{}
	}
	return steps, nil
}
