package testhelpers

import (
	"testing"

	"github.com/pageza/food/internal/database"
)

// IngredientRow is one recipe_ingredient line to insert.
type IngredientRow struct {
	Quantity float64
	Unit     string
	Name     string
}

// RecipeRow describes a recipe and everything it references. Missing lookup rows (source,
// meal type, units, ingredient names) are created on demand.
type RecipeRow struct {
	Title        string
	Description  string
	MealType     string
	SourceName   string
	SourceURL    *string
	CreationDate string
	Ingredients  []IngredientRow
	// Instructions are stored with step numbers 1..n in reverse insertion order so readers
	// cannot rely on row order.
	Instructions []string
}

// InsertRecipe writes r and returns the new recipe id.
func InsertRecipe(t *testing.T, db *database.DB, r RecipeRow) int64 {
	t.Helper()

	sourceID := nextID(t, db, "source")
	execSQL(t, db, "INSERT INTO source (id, name, url) VALUES (?, ?, ?)", sourceID, r.SourceName, r.SourceURL)

	mealTypeID := lookupOrInsert(t, db, "meal_type", "type_name", r.MealType)

	recipeID := nextID(t, db, "recipe")
	execSQL(t, db,
		"INSERT INTO recipe (id, title, description, source_id, meal_type_id, creation_date) VALUES (?, ?, ?, ?, ?, ?)",
		recipeID, r.Title, r.Description, sourceID, mealTypeID, r.CreationDate,
	)

	for _, ing := range r.Ingredients {
		unitID := lookupOrInsert(t, db, "measurement", "unit", ing.Unit)
		nameID := lookupOrInsert(t, db, "ingredient", "name", ing.Name)
		execSQL(t, db,
			"INSERT INTO recipe_ingredient (id, recipe_id, ingredient_id, measurement_id, quantity) VALUES (?, ?, ?, ?, ?)",
			nextID(t, db, "recipe_ingredient"), recipeID, nameID, unitID, ing.Quantity,
		)
	}

	for step := len(r.Instructions); step >= 1; step-- {
		execSQL(t, db,
			"INSERT INTO instruction (id, recipe_id, step_number, description) VALUES (?, ?, ?, ?)",
			nextID(t, db, "instruction"), recipeID, step, r.Instructions[step-1],
		)
	}

	return recipeID
}

func execSQL(t *testing.T, db *database.DB, sql string, args ...interface{}) {
	t.Helper()
	if err := db.Exec(sql, args...).Error; err != nil {
		t.Fatalf("failed to execute %q: %v", sql, err)
	}
}

func nextID(t *testing.T, db *database.DB, table string) int64 {
	t.Helper()
	var id int64
	if err := db.Raw("SELECT COALESCE(MAX(id), 0) + 1 FROM " + table).Scan(&id).Error; err != nil {
		t.Fatalf("failed to compute next id for %s: %v", table, err)
	}
	return id
}

func lookupOrInsert(t *testing.T, db *database.DB, table, column, value string) int64 {
	t.Helper()
	var ids []int64
	if err := db.Raw("SELECT id FROM "+table+" WHERE "+column+" = ?", value).Scan(&ids).Error; err != nil {
		t.Fatalf("failed to look up %s %q: %v", table, value, err)
	}
	if len(ids) > 0 {
		return ids[0]
	}
	id := nextID(t, db, table)
	execSQL(t, db, "INSERT INTO "+table+" (id, "+column+") VALUES (?, ?)", id, value)
	return id
}
