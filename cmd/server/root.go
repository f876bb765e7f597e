package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/study-tracker-api/internal/config"
	"github.com/yukikurage/study-tracker-api/internal/database"
	"github.com/yukikurage/study-tracker-api/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "study-tracker",
	Short: "Study Tracker API server",
	Long: `Backend for a collaborative study tracker.

Manages studies, their daily habits and completions, and focus points.
Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (overrides CONFIG_FILE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// bootstrap loads configuration, builds the logger and opens the database
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	if configFile != "" {
		os.Setenv("CONFIG_FILE", configFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: cfg.GinMode != "release",
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Sync()
		return nil, nil, nil, err
	}

	return cfg, log, db, nil
}
