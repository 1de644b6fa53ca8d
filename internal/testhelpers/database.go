package testhelpers

import (
	"context"
	"embed"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pageza/food/internal/database"
)

//go:embed testdata/*.sql
var testdata embed.FS

// SetupTestDatabase creates a file-backed SQLite database with the recipe schema applied and the
// named fixtures (files under testdata/, without extension) loaded in order. The pool allows
// several connections so per-connection settings are exercised.
func SetupTestDatabase(t *testing.T, fixtures ...string) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "food.db")
	db, err := database.Open("sqlite://"+path, database.PoolOptions{MaxOpenConns: 4, MaxIdleConns: 4}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	LoadFixtures(t, db, append([]string{"schema"}, fixtures...)...)
	return db
}

// SetupPostgresDatabase starts a PostgreSQL container and applies the same schema and fixtures.
// The test is skipped when docker is unavailable.
func SetupPostgresDatabase(t *testing.T, fixtures ...string) *database.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "food",
				"POSTGRES_PASSWORD": "food",
				"POSTGRES_DB":       "food",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	url := fmt.Sprintf("postgres://food:food@%s:%s/food?sslmode=disable", host, port.Port())
	db, err := database.Open(url, database.PoolOptions{MaxOpenConns: 4}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	LoadFixtures(t, db, append([]string{"schema"}, fixtures...)...)
	return db
}

// LoadFixtures executes each named testdata file statement by statement.
func LoadFixtures(t *testing.T, db *database.DB, names ...string) {
	t.Helper()

	// Fixtures go through database/sql directly so literal '?' in text values is never read as a
	// gorm placeholder.
	sqlDB, err := db.DB.DB()
	if err != nil {
		t.Fatalf("failed to access connection pool: %v", err)
	}

	for _, name := range names {
		content, err := testdata.ReadFile("testdata/" + name + ".sql")
		if err != nil {
			t.Fatalf("failed to read fixture %s: %v", name, err)
		}
		for _, stmt := range strings.Split(string(content), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := sqlDB.Exec(stmt); err != nil {
				t.Fatalf("failed to apply fixture %s: %v", name, err)
			}
		}
	}
}
