package web

import (
	"errors"
	"net/http"

	"github.com/pageza/food/internal/service"
)

const (
	notFoundMessage = "Looks like we could not find what you were looking for."
	internalMessage = "We ran into an unexpected problem."
)

// AppError is a failure rendered as an error page. Detail is logged, never shown.
type AppError struct {
	Status int
	Detail string
}

func (e *AppError) Error() string {
	if e.Detail == "" {
		return http.StatusText(e.Status)
	}
	return http.StatusText(e.Status) + ": " + e.Detail
}

// Message is the text shown on the page.
func (e *AppError) Message() string {
	if e.Status == http.StatusNotFound {
		return notFoundMessage
	}
	return internalMessage
}

// Title is the status part of the page title, e.g. "404 - Not Found".
func (e *AppError) Title() string {
	return statusTitle(e.Status)
}

func errNotFound() *AppError {
	return &AppError{Status: http.StatusNotFound}
}

// toAppError maps a source error onto a page. Missing recipes are 404, anything else is 500.
func toAppError(err error) *AppError {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, service.ErrRecipeNotFound):
		return errNotFound()
	default:
		detail := "unknown error"
		if err != nil {
			detail = err.Error()
		}
		return &AppError{Status: http.StatusInternalServerError, Detail: detail}
	}
}
