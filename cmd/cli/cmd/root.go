// Package cmd provides the CLI commands for sow-estimator.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sow-estimator/core/catalog"
	"sow-estimator/core/engine"
	"sow-estimator/core/estimation"
	"sow-estimator/db/sqlite"
	"sow-estimator/internal/config"
	"sow-estimator/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sow-estimator",
	Short: "Estimate project costs and draft Statements of Work",
	Long: `sow-estimator turns a client's project description into a scoped,
costed proposal with a rendered Statement of Work.

It detects the project type and features from free text, plans clarifying
questions, applies role and phase cost templates, and blends in pricing
from previously ingested SOWs.

Examples:
  sow-estimator estimate "WordPress site with booking and a blog"
  sow-estimator questions "We need a .NET web app with SSO"
  sow-estimator ratecard show`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sow-estimator.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(ratecardCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}
	config.Get().FromEnv()

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// newOrchestrator wires the estimation pipeline from the active
// configuration. The returned closer releases the store handle.
func newOrchestrator(ctx context.Context) (*engine.Orchestrator, func(), error) {
	cfg := config.Get()

	cat, err := catalog.LoadWithOverride(cfg.Catalog.OverridePath)
	if err != nil {
		return nil, nil, err
	}

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

	store, err := sqlite.Open(cfg.Storage.SQLitePath, cat.DefaultRateCard)
	if err != nil {
		return nil, nil, err
	}

	orchestrator := engine.New(cat, estimator, store, store)
	return orchestrator, func() { store.Close() }, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sow-estimator version 0.1.0")
	},
}
