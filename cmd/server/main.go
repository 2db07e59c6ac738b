package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/api"
	"github.com/nexusops/fulfillment-api/internal/config"
	"github.com/nexusops/fulfillment-api/internal/repository/postgres"
	"github.com/nexusops/fulfillment-api/internal/service"
	"github.com/nexusops/fulfillment-api/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	st := store.New(logger)

	switch {
	case cfg.Database.Enabled():
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := postgres.NewLoader(db, logger).Load(ctx, st); err != nil {
			logger.Fatal("failed to warm-load store", zap.Error(err))
		}
	case cfg.SeedDemo:
		if err := st.SeedDemo(time.Now()); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
		logger.Info("demo dataset seeded")
	}

	svcs := service.NewServices(
		st,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
		cfg.Dashboard.TrendDays,
		logger,
	)

	router := api.NewRouter(cfg, svcs, logger)

	logger.Info("starting server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
