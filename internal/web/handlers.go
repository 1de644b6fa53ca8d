package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/food/internal/logging"
	"github.com/pageza/food/internal/middleware"
	"github.com/pageza/food/internal/models"
)

const siteTitle = "Food"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/styles.css
var staticFS embed.FS

var funcs = template.FuncMap{
	"upper":      strings.ToUpper,
	"recipePath": RecipePath,
	"quantity": func(q float64) string {
		return strconv.FormatFloat(q, 'f', -1, 64)
	},
	"step": func(i int) int { return i + 1 },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

func parseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

type listingPage struct {
	Title   string
	Heading string
	Intro   string
	Listing []models.RecipeListing
}

type recipePage struct {
	Title  string
	Recipe *models.Recipe
}

type errorPage struct {
	Title   string
	Status  int
	Message string
}

// Handler renders the HTML pages from a RecipeSource.
type Handler struct {
	source RecipeSource
}

// NewHandler creates a Handler.
func NewHandler(source RecipeSource) *Handler {
	return &Handler{source: source}
}

// NewRouter builds the front end: pages, stylesheet, and the 404 fallback.
func NewRouter(source RecipeSource, log zerolog.Logger) *gin.Engine {
	h := NewHandler(source)

	router := gin.New()
	router.SetHTMLTemplate(parseTemplates())
	router.Use(
		middleware.RequestLogger(log),
		middleware.RecoveryWith(func(c *gin.Context) {
			h.renderError(c, &AppError{Status: http.StatusInternalServerError, Detail: "panic"})
		}),
	)
	h.RegisterRoutes(router)
	router.NoRoute(func(c *gin.Context) { h.renderError(c, errNotFound()) })

	return router
}

func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/", h.Home)
	router.GET("/recipes", h.RecipeList)
	router.GET("/recipes/:slug", h.Recipe)
	router.GET("/styles.css", h.Styles)
}

// Home lists every recipe under the welcome heading.
func (h *Handler) Home(c *gin.Context) {
	h.renderListing(c, "Welcome to my recipes", "We've got:")
}

// RecipeList lists every recipe.
func (h *Handler) RecipeList(c *gin.Context) {
	h.renderListing(c, "Recipes", "")
}

func (h *Handler) renderListing(c *gin.Context, heading, intro string) {
	listing, err := h.source.ListRecipeTitles(c.Request.Context())
	if err != nil {
		h.renderError(c, toAppError(err))
		return
	}
	c.HTML(http.StatusOK, "index.html", listingPage{
		Title:   siteTitle,
		Heading: heading,
		Intro:   intro,
		Listing: listing,
	})
}

// Recipe renders one recipe. The slug must be exactly the recipe's canonical slug.
func (h *Handler) Recipe(c *gin.Context) {
	slug := c.Param("slug")
	id, ok := slugID(slug)
	if !ok {
		h.renderError(c, errNotFound())
		return
	}

	recipe, err := h.source.GetRecipe(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, toAppError(err))
		return
	}
	if Slug(id, recipe.Title) != slug {
		h.renderError(c, errNotFound())
		return
	}

	c.HTML(http.StatusOK, "recipe.html", recipePage{
		Title:  siteTitle,
		Recipe: recipe,
	})
}

// Styles serves the embedded stylesheet.
func (h *Handler) Styles(c *gin.Context) {
	css, err := fs.ReadFile(staticFS, "static/styles.css")
	if err != nil {
		h.renderError(c, toAppError(err))
		return
	}
	c.Data(http.StatusOK, "text/css; charset=utf-8", css)
}

func (h *Handler) renderError(c *gin.Context, appErr *AppError) {
	if appErr.Status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error().
			Str("path", c.Request.URL.Path).
			Str("detail", appErr.Detail).
			Msg("page failed")
	}
	_ = c.Error(appErr)
	c.HTML(appErr.Status, "error.html", errorPage{
		Title:   appErr.Title() + " | " + siteTitle,
		Status:  appErr.Status,
		Message: appErr.Message(),
	})
	c.Abort()
}

func statusTitle(status int) string {
	return fmt.Sprintf("%d - %s", status, http.StatusText(status))
}
