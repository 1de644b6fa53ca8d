package service

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/food/internal/database"
	"github.com/pageza/food/internal/models"
	"github.com/pageza/food/internal/testhelpers"
)

func glassOfWater() *models.Recipe {
	return &models.Recipe{
		Title:       "Glass of water",
		Description: "Refreshing, isn't it?",
		MealType:    "Drink",
		SourceName:  "Cool source",
		SourceURL:   nil,
		Ingredients: []models.Ingredient{
			{Quantity: 1.0, Unit: "piece", Name: "any drinking glass"},
			{Quantity: 2.5, Unit: "dl", Name: "water"},
		},
		Instructions: []string{
			"Pour the water into the glass.",
			"Enjoy the nice water.",
		},
		CreationDate: civil.Date{Year: 2025, Month: 1, Day: 19},
	}
}

func newService(db *database.DB) *RecipeService {
	return NewRecipeService(db.DB, DefaultQueryTimeout)
}

func TestGetRecipeGlassOfWater(t *testing.T) {
	svc := newService(testhelpers.SetupTestDatabase(t, "glass_of_water"))

	recipe, err := svc.GetRecipe(context.Background(), 1)
	require.NoError(t, err)

	if diff := cmp.Diff(glassOfWater(), recipe); diff != "" {
		t.Errorf("GetRecipe(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestGetRecipeGlassOfWaterPostgres(t *testing.T) {
	svc := newService(testhelpers.SetupPostgresDatabase(t, "glass_of_water"))

	recipe, err := svc.GetRecipe(context.Background(), 1)
	require.NoError(t, err)

	if diff := cmp.Diff(glassOfWater(), recipe); diff != "" {
		t.Errorf("GetRecipe(1) mismatch (-want +got):\n%s", diff)
	}

	_, err = svc.GetRecipe(context.Background(), 2)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestGetRecipeNotFound(t *testing.T) {
	svc := newService(testhelpers.SetupTestDatabase(t, "glass_of_water"))

	for _, id := range []int64{0, 2, -1, 1 << 40} {
		recipe, err := svc.GetRecipe(context.Background(), id)
		assert.Nil(t, recipe)
		assert.ErrorIs(t, err, ErrRecipeNotFound, "id %d", id)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "id %d", id)
	}
}

// deleteUnchecked runs stmt on a connection with foreign key enforcement switched off, then
// restores enforcement before the connection goes back to the pool.
func deleteUnchecked(t *testing.T, db *database.DB, stmt string) {
	t.Helper()

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	ctx := context.Background()
	conn, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, stmt)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)
}

func TestGetRecipeMissingMealTypeIsNotFound(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t, "glass_of_water")
	deleteUnchecked(t, db, "DELETE FROM meal_type WHERE id = 1")

	recipe, err := newService(db).GetRecipe(context.Background(), 1)
	assert.Nil(t, recipe)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestGetRecipeMissingSourceIsNotFound(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t, "glass_of_water")
	deleteUnchecked(t, db, "DELETE FROM source WHERE id = 1")

	recipe, err := newService(db).GetRecipe(context.Background(), 1)
	assert.Nil(t, recipe)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestGetRecipeDateTypedColumn(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	// The driver hands DATE columns back as time.Time unless the query converts them.
	require.NoError(t, db.Exec("DROP TABLE recipe").Error)
	require.NoError(t, db.Exec(`CREATE TABLE recipe (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		source_id INTEGER NOT NULL REFERENCES source (id),
		meal_type_id INTEGER NOT NULL REFERENCES meal_type (id),
		creation_date DATE NOT NULL
	)`).Error)
	testhelpers.LoadFixtures(t, db, "glass_of_water")

	recipe, err := newService(db).GetRecipe(context.Background(), 1)
	require.NoError(t, err)
	if diff := cmp.Diff(glassOfWater(), recipe); diff != "" {
		t.Errorf("GetRecipe(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestGetRecipeMalformedDate(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	id := testhelpers.InsertRecipe(t, db, testhelpers.RecipeRow{
		Title:        "Toast",
		Description:  "Bread, but warm.",
		MealType:     "Breakfast",
		SourceName:   "Grandma",
		CreationDate: "19/01/2025",
	})

	recipe, err := newService(db).GetRecipe(context.Background(), id)
	assert.Nil(t, recipe)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRecipeNotFound)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "creation_date", decodeErr.Column)
	assert.Equal(t, "19/01/2025", decodeErr.Value)
}

func TestGetRecipeEmptyCollections(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	url := "https://example.com/air"
	id := testhelpers.InsertRecipe(t, db, testhelpers.RecipeRow{
		Title:        "Air",
		Description:  "Nothing to it.",
		MealType:     "Snack",
		SourceName:   "Nobody",
		SourceURL:    &url,
		CreationDate: "2024-02-29",
	})

	recipe, err := newService(db).GetRecipe(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, recipe.Ingredients)
	assert.NotNil(t, recipe.Instructions)
	require.NotNil(t, recipe.SourceURL)
	assert.Equal(t, url, *recipe.SourceURL)

	data, err := json.Marshal(recipe)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ingredients":[]`)
	assert.Contains(t, string(data), `"instructions":[]`)
	assert.Contains(t, string(data), `"creation_date":"2024-02-29"`)
}

func TestGetRecipeOrdering(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	id := testhelpers.InsertRecipe(t, db, testhelpers.RecipeRow{
		Title:        "Pancakes",
		Description:  "Flat and round.",
		MealType:     "Breakfast",
		SourceName:   "Cookbook",
		CreationDate: "2023-06-01",
		Ingredients: []testhelpers.IngredientRow{
			{Quantity: 3, Unit: "dl", Name: "milk"},
			{Quantity: 2, Unit: "piece", Name: "egg"},
			{Quantity: 1.5, Unit: "dl", Name: "flour"},
		},
		Instructions: []string{"Whisk.", "Rest the batter.", "Fry."},
	})

	recipe, err := newService(db).GetRecipe(context.Background(), id)
	require.NoError(t, err)

	names := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		names = append(names, ing.Name)
	}
	assert.Equal(t, []string{"milk", "egg", "flour"}, names)
	assert.Equal(t, []string{"Whisk.", "Rest the batter.", "Fry."}, recipe.Instructions)
}

func TestGetRecipeDoesNotMixRecipes(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t, "glass_of_water")
	id := testhelpers.InsertRecipe(t, db, testhelpers.RecipeRow{
		Title:        "Sparkling water",
		Description:  "Bubbly.",
		MealType:     "Drink",
		SourceName:   "Cool source",
		CreationDate: "2025-01-20",
		Ingredients:  []testhelpers.IngredientRow{{Quantity: 3, Unit: "dl", Name: "sparkling water"}},
		Instructions: []string{"Open the bottle."},
	})

	svc := newService(db)
	recipe, err := svc.GetRecipe(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, []string{"Open the bottle."}, recipe.Instructions)

	original, err := svc.GetRecipe(context.Background(), 1)
	require.NoError(t, err)
	if diff := cmp.Diff(glassOfWater(), original); diff != "" {
		t.Errorf("GetRecipe(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestListRecipeTitles(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t, "glass_of_water")
	for _, title := range []string{"Zucchini soup", "Apple pie"} {
		testhelpers.InsertRecipe(t, db, testhelpers.RecipeRow{
			Title:        title,
			Description:  "Tasty.",
			MealType:     "Dinner",
			SourceName:   "Someone",
			CreationDate: "2025-02-01",
		})
	}

	listing, err := newService(db).ListRecipeTitles(context.Background())
	require.NoError(t, err)

	want := []models.RecipeListing{
		{ID: 1, Title: "Glass of water"},
		{ID: 2, Title: "Zucchini soup"},
		{ID: 3, Title: "Apple pie"},
	}
	if diff := cmp.Diff(want, listing); diff != "" {
		t.Errorf("ListRecipeTitles mismatch (-want +got):\n%s", diff)
	}
}

func TestListRecipeTitlesEmpty(t *testing.T) {
	svc := newService(testhelpers.SetupTestDatabase(t))

	listing, err := svc.ListRecipeTitles(context.Background())
	require.NoError(t, err)
	require.NotNil(t, listing)
	assert.Empty(t, listing)

	data, err := json.Marshal(listing)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestCancelledContext(t *testing.T) {
	svc := newService(testhelpers.SetupTestDatabase(t, "glass_of_water"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GetRecipe(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRecipeNotFound)

	_, err = svc.ListRecipeTitles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRecipeServiceDefaultTimeout(t *testing.T) {
	svc := NewRecipeService(nil, 0)
	assert.Equal(t, DefaultQueryTimeout, svc.queryTimeout)
}
