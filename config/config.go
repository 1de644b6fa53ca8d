package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Service identifies which binary is loading configuration. Defaults differ per service.
type Service string

const (
	APIService Service = "api"
	WebService Service = "web"
)

const (
	defaultAPIPort     = 3001
	defaultWebPort     = 3002
	defaultHost        = "0.0.0.0"
	defaultBackendURL  = "http://0.0.0.0:3001"
	defaultCORSOrigins = "http://localhost:3002"
)

// Config holds all configuration for the application
type Config struct {
	Service     Service
	Environment Environment

	// Server configuration
	ServerHost      string        `validate:"required"`
	ServerPort      int           `validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	// Database configuration
	DatabaseURL       string
	DBMaxOpenConns    int           `validate:"min=1"`
	DBMaxIdleConns    int           `validate:"min=0"`
	DBConnMaxLifetime time.Duration `validate:"min=0"`
	DBQueryTimeout    time.Duration `validate:"gt=0"`

	// Logging configuration
	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=console json"`

	// ExposeErrors returns internal error details to API clients. Off in production.
	ExposeErrors bool

	CORSAllowedOrigins []string

	// Redis backs the rate limiter; rate limiting is disabled when RedisURL is empty
	RedisURL           string
	RateLimitPerMinute int `validate:"min=0"`

	MetricsEnabled bool

	// BackendURL is where the web front end fetches recipe JSON from
	BackendURL string `validate:"required,url"`
}

// LoadConfig creates a new Config instance with values from environment variables.
// A missing DATABASE_URL is only fatal for services that talk to storage; see RequireDatabase.
func LoadConfig(svc Service) (*Config, error) {
	env := GetEnvironment()
	l := &loader{}

	port := defaultAPIPort
	if svc == WebService {
		port = defaultWebPort
	}

	cfg := &Config{
		Service:            svc,
		Environment:        env,
		ServerHost:         l.str("HOST", defaultHost),
		ServerPort:         l.integer("PORT", port),
		ShutdownTimeout:    l.duration("SHUTDOWN_TIMEOUT", 5*time.Second),
		DatabaseURL:        l.str("DATABASE_URL", ""),
		DBMaxOpenConns:     l.integer("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:     l.integer("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime:  l.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		DBQueryTimeout:     l.duration("DB_QUERY_TIMEOUT", 5*time.Second),
		LogLevel:           strings.ToLower(l.str("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(l.str("LOG_FORMAT", env.defaultLogFormat())),
		ExposeErrors:       l.boolean("EXPOSE_ERRORS", !env.IsProduction()),
		CORSAllowedOrigins: splitList(l.str("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)),
		RedisURL:           l.str("REDIS_URL", ""),
		RateLimitPerMinute: l.integer("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:     l.boolean("METRICS_ENABLED", true),
		BackendURL:         l.str("BACKEND_URL", defaultBackendURL),
	}

	if len(l.errs) > 0 {
		return nil, l.errs
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	if svc == APIService {
		if err := cfg.RequireDatabase(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// RequireDatabase reports a configuration error when no connection string was provided.
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return ValidationErrors{{
			Field:   "DATABASE_URL",
			Message: "no database provided: please define DATABASE_URL and run again",
		}}
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + strconv.Itoa(c.ServerPort)
}

// loader reads typed environment variables, collecting parse failures instead of stopping at the first.
type loader struct {
	errs ValidationErrors
}

func (l *loader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (l *loader) integer(key string, def int) int {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.errs = append(l.errs, ValidationError{Field: key, Message: "must be an integer, got " + strconv.Quote(v)})
		return def
	}
	return n
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.errs = append(l.errs, ValidationError{Field: key, Message: "must be a duration such as 5s, got " + strconv.Quote(v)})
		return def
	}
	return d
}

func (l *loader) boolean(key string, def bool) bool {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.errs = append(l.errs, ValidationError{Field: key, Message: "must be a boolean, got " + strconv.Quote(v)})
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
