// Package main runs the recipe JSON API.
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
	"github.com/pageza/food/internal/router"
	"github.com/pageza/food/internal/server"
	"github.com/pageza/food/internal/service"
)

var port int

var rootCmd = &cobra.Command{
	Use:          "api",
	Short:        "Recipe catalogue JSON API",
	Long:         "Serves recipe listings and recipe details as JSON from the catalogue database named by DATABASE_URL.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides PORT)")
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
	cfg, err := config.LoadConfig(config.APIService)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.ServerPort = port
		if err := config.ValidateConfig(cfg); err != nil {
			return err
		}
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "food-api"})
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	redisClient, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		// Rate limiting is optional; serve without it.
		log.Warn().Err(err).Msg("rate limiting disabled")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	handler := router.SetupRouter(cfg, router.Dependencies{
		Recipes: service.NewRecipeService(db.DB, cfg.DBQueryTimeout),
		DB:      db,
		Redis:   redisClient,
		Log:     log,
	})

	srv := server.New(cfg.Addr(), handler, cfg.ShutdownTimeout, log)
	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	return nil
}
