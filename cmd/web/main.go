// Package main runs the server-rendered recipe pages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pageza/food/config"
	"github.com/pageza/food/internal/database"
	"github.com/pageza/food/internal/logging"
	"github.com/pageza/food/internal/server"
	"github.com/pageza/food/internal/service"
	"github.com/pageza/food/internal/web"
)

var (
	port    int
	backend string
	direct  bool
)

var rootCmd = &cobra.Command{
	Use:   "web",
	Short: "Recipe catalogue web pages",
	Long: "Renders the recipe catalogue as HTML. Pages are built from the JSON API at BACKEND_URL, " +
		"or straight from DATABASE_URL with --direct.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides PORT)")
	rootCmd.Flags().StringVar(&backend, "backend", "", "base URL of the JSON API (overrides BACKEND_URL)")
	rootCmd.Flags().BoolVar(&direct, "direct", false, "read recipes from DATABASE_URL instead of the JSON API")
	rootCmd.MarkFlagsMutuallyExclusive("backend", "direct")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(config.WebService)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.ServerPort = port
	}
	if cmd.Flags().Changed("backend") {
		cfg.BackendURL = backend
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "food-web"})
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var source web.RecipeSource
	if direct {
		db, err := database.New(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close database")
			}
		}()
		source = service.NewRecipeService(db.DB, cfg.DBQueryTimeout)
		log.Info().Msg("rendering pages from the database")
	} else {
		source = web.NewClient(cfg.BackendURL, nil)
		log.Info().Str("backend", cfg.BackendURL).Msg("rendering pages from the JSON API")
	}

	srv := server.New(cfg.Addr(), web.NewRouter(source, log), cfg.ShutdownTimeout, log)
	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	return nil
}
