package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/food/internal/metrics"
	"github.com/pageza/food/internal/service"
)

// RecipeHandler serves the read-only recipe endpoints.
type RecipeHandler struct {
	recipes      service.IRecipeService
	metrics      *metrics.Metrics
	exposeErrors bool
}

// NewRecipeHandler creates a RecipeHandler. m may be nil.
func NewRecipeHandler(recipes service.IRecipeService, m *metrics.Metrics, exposeErrors bool) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		metrics:      m,
		exposeErrors: exposeErrors,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
	}
}

// ListRecipes returns every recipe id and title.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	listing, err := h.recipes.ListRecipeTitles(c.Request.Context())
	if err != nil {
		respondError(c, err, h.exposeErrors)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetRecipe returns one recipe with its ingredients and instructions.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "recipe id must be an integer"})
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			h.metrics.RecordRecipeLookup(metrics.LookupNotFound)
		} else {
			h.metrics.RecordRecipeLookup(metrics.LookupError)
		}
		respondError(c, err, h.exposeErrors)
		return
	}

	h.metrics.RecordRecipeLookup(metrics.LookupFound)
	c.JSON(http.StatusOK, recipe)
}
