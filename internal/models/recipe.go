package models

import "cloud.google.com/go/civil"

// RecipeListing is the minimal projection used by index pages.
type RecipeListing struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Recipe is one recipe header joined with its source and meal type, plus its ordered
// ingredients and instructions.
type Recipe struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	MealType     string       `json:"meal_type"`
	SourceName   string       `json:"source_name"`
	SourceURL    *string      `json:"source_url"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	CreationDate civil.Date   `json:"creation_date"`
}

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Name     string  `json:"name"`
}
