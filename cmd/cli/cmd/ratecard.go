// Package cmd - ratecard commands
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"sow-estimator/core/types"
)

// ratecardCmd groups rate card administration
var ratecardCmd = &cobra.Command{
	Use:   "ratecard",
	Short: "Manage the hourly rate card",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// ratecardShowCmd prints the active rate card
var ratecardShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active rate card",
	RunE:  runRatecardShow,
}

// ratecardSetCmd replaces the rate card from a JSON file
var ratecardSetCmd = &cobra.Command{
	Use:   "set [file]",
	Short: "Replace the rate card from a JSON file",
	Long: `Replace the entire rate card with the roles and rates in the given
JSON file. Roles absent from the file are removed.

The file maps role names to hourly rates:
  {"Project Manager": 90, "Backend Developer": 95}`,
	Args: cobra.ExactArgs(1),
	RunE: runRatecardSet,
}

func init() {
	ratecardCmd.AddCommand(ratecardShowCmd)
	ratecardCmd.AddCommand(ratecardSetCmd)
}

func runRatecardShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	orchestrator, closeStore, err := newOrchestrator(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer closeStore()

	card := orchestrator.RateCard(ctx)
	roles := make([]string, 0, len(card))
	for role := range card {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for _, role := range roles {
		fmt.Printf("%-45s $%s/h\n", role, card[role].StringFixed(2))
	}
	return nil
}

func runRatecardSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read rate card file: %w", err)
	}
	var rates map[string]float64
	if err := json.Unmarshal(data, &rates); err != nil {
		return fmt.Errorf("failed to parse rate card file: %w", err)
	}

	card := types.RateCard{}
	for role, rate := range rates {
		card[role] = decimal.NewFromFloat(rate)
	}

	orchestrator, closeStore, err := newOrchestrator(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer closeStore()

	if err := orchestrator.UpdateRateCard(ctx, card); err != nil {
		return err
	}
	fmt.Printf("Rate card replaced with %d roles.\n", len(card))
	return nil
}
