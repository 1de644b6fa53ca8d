package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/pageza/food/internal/logging"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Recovery turns a panic in a later handler into a logged 500 JSON response.
func Recovery() gin.HandlerFunc {
	return RecoveryWith(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	})
}

// RecoveryWith logs a panic in a later handler and lets respond write the 500 response.
// respond is skipped when the response has already started.
func RecoveryWith(respond gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logging.FromContext(c.Request.Context()).Error().
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Str("path", c.Request.URL.Path).
				Msg("recovered from panic")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond(c)
			c.Abort()
		}()

		c.Next()
	}
}

// NotFound is the fallback for unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
}
