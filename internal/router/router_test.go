package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/food/config"
	"github.com/pageza/food/internal/service"
	"github.com/pageza/food/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const glassOfWaterJSON = `{
	"title": "Glass of water",
	"description": "Refreshing, isn't it?",
	"meal_type": "Drink",
	"source_name": "Cool source",
	"source_url": null,
	"ingredients": [
		{"quantity": 1.0, "unit": "piece", "name": "any drinking glass"},
		{"quantity": 2.5, "unit": "dl", "name": "water"}
	],
	"instructions": ["Pour the water into the glass.", "Enjoy the nice water."],
	"creation_date": "2025-01-19"
}`

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowedOrigins: []string{"http://localhost:3002"},
		ExposeErrors:       true,
		MetricsEnabled:     true,
		RateLimitPerMinute: 120,
	}
}

func setupRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t, "glass_of_water")
	return SetupRouter(cfg, Dependencies{
		Recipes: service.NewRecipeService(db.DB, time.Second),
		DB:      db,
		Log:     zerolog.Nop(),
	})
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGlassOfWater(t *testing.T) {
	router := setupRouter(t, testConfig())

	t.Run("detail", func(t *testing.T) {
		w := get(router, "/api/recipes/1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.JSONEq(t, glassOfWaterJSON, w.Body.String())
	})

	t.Run("listing", func(t *testing.T) {
		w := get(router, "/api/recipes")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":1,"title":"Glass of water"}]`, w.Body.String())
	})

	t.Run("missing recipe", func(t *testing.T) {
		w := get(router, "/api/recipes/2")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
	})

	t.Run("non-integer id", func(t *testing.T) {
		w := get(router, "/api/recipes/water")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUnmatchedRoutes(t *testing.T) {
	router := setupRouter(t, testConfig())

	for _, path := range []string{"/", "/api", "/api/recipes/1/ingredients", "/recipes/1"} {
		w := get(router, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"not found"}`, w.Body.String(), path)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/recipes/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router := setupRouter(t, testConfig())

	w := get(router, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	get(router, "/api/recipes/1")
	w = get(router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `food_http_requests_total{method="GET",route="/api/recipes/:id",status="200"} 1`)
	assert.Contains(t, w.Body.String(), `food_recipes_lookups_total{result="found"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	router := setupRouter(t, cfg)

	assert.Equal(t, http.StatusNotFound, get(router, "/metrics").Code)
	assert.Equal(t, http.StatusOK, get(router, "/api/recipes/1").Code)
}

func TestRequestIDHeader(t *testing.T) {
	router := setupRouter(t, testConfig())

	w := get(router, "/api/recipes")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
