package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/pageza/food/internal/service"
)

func TestFromError(t *testing.T) {
	notFound := fmt.Errorf("%w: id 7: %w", service.ErrRecipeNotFound, gorm.ErrRecordNotFound)
	decode := &service.DecodeError{Column: "creation_date", Value: "yesterday", Err: errors.New("bad date")}

	tests := []struct {
		name   string
		err    error
		kind   ErrorKind
		status int
	}{
		{name: "recipe not found", err: notFound, kind: KindNotFound, status: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("handler: %w", notFound), kind: KindNotFound, status: http.StatusNotFound},
		{name: "bare record not found", err: gorm.ErrRecordNotFound, kind: KindInternal, status: http.StatusInternalServerError},
		{name: "decode error", err: decode, kind: KindInternal, status: http.StatusInternalServerError},
		{name: "timeout", err: context.DeadlineExceeded, kind: KindInternal, status: http.StatusInternalServerError},
		{name: "nil", err: nil, kind: KindInternal, status: http.StatusInternalServerError},
		{name: "already classified", err: NotFound(), kind: KindNotFound, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := FromError(tt.err)
			assert.Equal(t, tt.kind, serr.Kind)
			assert.Equal(t, tt.status, serr.Status())
		})
	}
}

func TestFromErrorKeepsDetail(t *testing.T) {
	serr := FromError(errors.New("disk I/O error"))
	assert.Equal(t, "disk I/O error", serr.Detail)
	assert.Equal(t, "internal error: disk I/O error", serr.Error())
}

func TestServerErrorMessage(t *testing.T) {
	internal := Internal("no such table: recipe")
	assert.Equal(t, "no such table: recipe", internal.Message(true))
	assert.Equal(t, "internal server error", internal.Message(false))
	assert.Equal(t, "internal server error", Internal("").Message(true))

	assert.Equal(t, "not found", NotFound().Message(true))
	assert.Equal(t, "not found", NotFound().Message(false))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "internal", KindInternal.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}
