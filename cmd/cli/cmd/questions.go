// Package cmd - questions command
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// questionsCmd represents the questions command
var questionsCmd = &cobra.Command{
	Use:   "questions [text]",
	Short: "Plan clarifying questions for a project description",
	Long: `Detect the project type from a description and print the clarifying
questions that would be asked before estimating, including follow-ups
drawn from similar past projects.

Examples:
  sow-estimator questions "WordPress site for a dental clinic"
  sow-estimator questions "Migrate our hosting to AWS with CI/CD"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuestions,
}

func runQuestions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	orchestrator, closeStore, err := newOrchestrator(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer closeStore()

	detected := orchestrator.ExtractFeatures(args[0])
	fmt.Println(detected.Summary)
	fmt.Println()

	for i, q := range orchestrator.PlanQuestions(ctx, args[0]) {
		fmt.Printf("%d. %s\n", i+1, q)
	}
	return nil
}
