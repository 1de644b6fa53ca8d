package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/food/internal/logging"
	"github.com/pageza/food/internal/service"
)

// ErrorKind classifies failures that reach the HTTP boundary.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// ServerError is the only error type handlers turn into responses.
type ServerError struct {
	Kind ErrorKind
	// Detail is the underlying error text. Empty for KindNotFound.
	Detail string
}

func (e *ServerError) Error() string {
	if e.Kind == KindNotFound {
		return "not found"
	}
	return "internal error: " + e.Detail
}

// NotFound builds a KindNotFound error.
func NotFound() *ServerError {
	return &ServerError{Kind: KindNotFound}
}

// Internal builds a KindInternal error carrying detail.
func Internal(detail string) *ServerError {
	return &ServerError{Kind: KindInternal, Detail: detail}
}

// FromError classifies err. A missing recipe is NotFound, everything else is Internal.
func FromError(err error) *ServerError {
	var serr *ServerError
	switch {
	case err == nil:
		return Internal("unknown error")
	case errors.As(err, &serr):
		return serr
	case errors.Is(err, service.ErrRecipeNotFound):
		return NotFound()
	default:
		return Internal(err.Error())
	}
}

// Status is the HTTP status code for the error.
func (e *ServerError) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Message is the text placed in the response body. Internal detail is only revealed when
// expose is set.
func (e *ServerError) Message(expose bool) string {
	switch e.Kind {
	case KindNotFound:
		return "not found"
	default:
		if expose && e.Detail != "" {
			return e.Detail
		}
		return "internal server error"
	}
}

// respondError writes err as {"error": "..."} with the matching status and logs internal failures.
func respondError(c *gin.Context, err error, expose bool) {
	serr := FromError(err)
	if serr.Kind == KindInternal {
		logging.FromContext(c.Request.Context()).Error().
			Str("path", c.Request.URL.Path).
			Str("detail", serr.Detail).
			Msg("request failed")
	}
	_ = c.Error(serr)
	c.AbortWithStatusJSON(serr.Status(), gin.H{"error": serr.Message(expose)})
}
