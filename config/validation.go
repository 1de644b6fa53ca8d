package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every problem found while loading configuration.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
}

// envNames maps struct fields to the environment variable that feeds them.
var envNames = map[string]string{
	"ServerHost":         "HOST",
	"ServerPort":         "PORT",
	"ShutdownTimeout":    "SHUTDOWN_TIMEOUT",
	"DBMaxOpenConns":     "DB_MAX_OPEN_CONNS",
	"DBMaxIdleConns":     "DB_MAX_IDLE_CONNS",
	"DBConnMaxLifetime":  "DB_CONN_MAX_LIFETIME",
	"DBQueryTimeout":     "DB_QUERY_TIMEOUT",
	"LogLevel":           "LOG_LEVEL",
	"LogFormat":          "LOG_FORMAT",
	"RateLimitPerMinute": "RATE_LIMIT_PER_MINUTE",
	"BackendURL":         "BACKEND_URL",
}

var validate = validator.New()

// ValidateConfig checks struct-level rules and reports them in terms of environment variables.
func ValidateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name, ok := envNames[fe.Field()]
		if !ok {
			name = fe.Field()
		}
		out = append(out, ValidationError{Field: name, Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("must be a valid URL, got %v", fe.Value())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
