// Package main - Entry point for the sow-estimator HTTP server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"sow-estimator/api"
	"sow-estimator/core/catalog"
	"sow-estimator/core/engine"
	"sow-estimator/core/estimation"
	"sow-estimator/core/knowledge"
	"sow-estimator/db/postgres"
	"sow-estimator/db/sqlite"
	"sow-estimator/internal/config"
	"sow-estimator/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgFile := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	// .env is optional; the process environment wins either way
	godotenv.Load()

	cfg := config.Get()
	if *cfgFile != "" {
		loaded, err := config.Load(*cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(loaded)
		cfg = loaded
	}
	cfg.FromEnv()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	cat, err := catalog.LoadWithOverride(cfg.Catalog.OverridePath)
	if err != nil {
		logging.Fatal("Failed to load catalog: " + err.Error())
	}

	ctx := context.Background()
	rateStore, kb, closeStore, err := openStores(ctx, cfg, cat)
	if err != nil {
		logging.Fatal("Failed to open store: " + err.Error())
	}
	defer closeStore()

	estCfg := estimation.ConfigWithOverrides(
		cfg.Estimation.Mode, cfg.Estimation.MinimumHours, cfg.Estimation.CostRounding)
	var opts []estimation.EngineOption
	if cfg.Advisory.Enabled && cfg.Advisory.Endpoint != "" {
		opts = append(opts, estimation.WithCorrector(estimation.NewHTTPCorrector(
			cfg.Advisory.Endpoint,
			estimation.WithMaxAttempts(cfg.Advisory.MaxAttempts),
			estimation.WithTimeout(time.Duration(cfg.Advisory.TimeoutSeconds)*time.Second),
		)))
	}
	estimator := estimation.NewEngine(cat, estCfg, opts...)

	orchestrator := engine.New(cat, estimator, rateStore, kb)
	server := api.NewServer(version, orchestrator)

	logging.Info(fmt.Sprintf("sow-estimator v%s listening on %s (storage: %s, mode: %s)",
		version, cfg.Server.Addr, cfg.Storage.Driver, cfg.Estimation.Mode))

	if err := server.ListenAndServe(cfg.Server.Addr); err != nil {
		logging.Fatal("Server failed: " + err.Error())
	}
}

// openStores opens the configured storage backend. Both store interfaces
// are served by the same handle.
func openStores(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) (knowledge.RateCardStore, knowledge.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		store, err := postgres.Open(ctx, cfg.Storage.PostgresDSN, cat.DefaultRateCard)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, store.Close, nil
	default:
		store, err := sqlite.Open(cfg.Storage.SQLitePath, cat.DefaultRateCard)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, func() { store.Close() }, nil
	}
}
