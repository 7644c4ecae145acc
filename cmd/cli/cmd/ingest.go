// Package cmd - ingest command
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest past SOW documents into the knowledge base",
	Long: `Parse one or more past Statement of Work documents and store the
detected features and final price. Future estimates blend in pricing
from the most similar ingested projects.

Examples:
  sow-estimator ingest old-proposals/acme-sow.md
  sow-estimator ingest archive/*.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	orchestrator, closeStore, err := newOrchestrator(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer closeStore()

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := orchestrator.IngestSOW(ctx, string(data), filepath.Base(path), nil); err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}
		fmt.Printf("Ingested %s\n", path)
	}
	return nil
}
