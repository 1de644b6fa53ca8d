package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pageza/food/internal/models"
	"github.com/pageza/food/internal/service"
)

const defaultClientTimeout = 10 * time.Second

// Client reads recipes from the JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure Client implements RecipeSource
var _ RecipeSource = (*Client)(nil)

// NewClient creates a Client for the API at baseURL, e.g. http://localhost:3001.
// A nil httpClient gets a default with a request timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultClientTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BackendError is an unexpected answer from the API.
type BackendError struct {
	URL    string
	Status int
	Reason string
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %s: status %d: %s", e.URL, e.Status, e.Reason)
	}
	return fmt.Sprintf("backend %s: %s", e.URL, e.Reason)
}

// ListRecipeTitles fetches GET /api/recipes.
func (c *Client) ListRecipeTitles(ctx context.Context) ([]models.RecipeListing, error) {
	var listing []models.RecipeListing
	if err := c.getJSON(ctx, "/api/recipes", &listing); err != nil {
		return nil, err
	}
	if listing == nil {
		listing = []models.RecipeListing{}
	}
	return listing, nil
}

// GetRecipe fetches GET /api/recipes/{id}. A 404 from the API is reported as
// service.ErrRecipeNotFound.
func (c *Client) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := c.getJSON(ctx, "/api/recipes/"+strconv.FormatInt(id, 10), &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s", service.ErrRecipeNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &BackendError{URL: url, Status: resp.StatusCode, Reason: strings.TrimSpace(string(body))}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return &BackendError{URL: url, Reason: "response does not have a content type"}
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return &BackendError{URL: url, Reason: "expected application/json, got " + contentType}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}
