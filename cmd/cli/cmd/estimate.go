// Package cmd - estimate command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sow-estimator/core/engine"
	"sow-estimator/core/types"
)

var (
	outputFormat string
	answersFile  string
	clientEmail  string
	companyName  string
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate [text]",
	Short: "Estimate a project from a client description",
	Long: `Analyze a client's project description and produce a costed proposal.

When the description is short and carries no budget figure, the command
prints the clarifying questions to answer first. Provide answers with
--answers to complete the estimate in one run.

The answers file is JSON: a list of {"question": ..., "answer": ...} pairs.

Examples:
  sow-estimator estimate "WordPress site with booking and a blog"
  sow-estimator estimate --answers answers.json "A .NET web app with SSO"
  sow-estimator estimate --format json "HubSpot portal with CRM sync"`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "cli", "output format (cli, json, sow)")
	estimateCmd.Flags().StringVarP(&answersFile, "answers", "a", "", "JSON file with answered questions")
	estimateCmd.Flags().StringVar(&clientEmail, "email", "", "client contact email for the SOW")
	estimateCmd.Flags().StringVar(&companyName, "company", "", "client company name for the SOW")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	text := args[0]

	orchestrator, closeStore, err := newOrchestrator(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer closeStore()

	client := types.ClientInfo{CompanyName: companyName, ContactEmail: clientEmail}

	if answersFile != "" {
		answers, err := loadAnswers(answersFile)
		if err != nil {
			return err
		}
		proposal, err := orchestrator.ProcessFollowup(ctx, text, answers, nil, client)
		if err != nil {
			return err
		}
		return printProposal(proposal)
	}

	result, err := orchestrator.ProcessClientInput(ctx, text, client)
	if err != nil {
		return err
	}

	if result.RequiresClarification {
		fmt.Println("A few questions before the estimate:")
		for i, q := range result.Questions {
			fmt.Printf("  %d. %s\n", i+1, q)
		}
		fmt.Println("\nAnswer them in a JSON file and re-run with --answers.")
		return nil
	}
	return printProposal(result.Proposal)
}

func loadAnswers(path string) ([]types.AnswerItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}
	var answers []types.AnswerItem
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("failed to parse answers file: %w", err)
	}
	return answers, nil
}

func printProposal(p *engine.Proposal) error {
	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "sow":
		fmt.Println(p.SOW)
	default:
		printProposalCLI(p)
	}
	return nil
}

func printProposalCLI(p *engine.Proposal) {
	fmt.Println(p.Summary)
	fmt.Println()

	est := p.Estimate
	fmt.Printf("Total: $%s over %d hours (%s, ±%.0f%%)\n",
		est.TotalCost.StringFixed(2), est.TotalHours, est.Confidence, est.Variance*100)
	fmt.Printf("Cost basis: %s\n", est.Source)
	if est.AdvisoryNote != "" {
		fmt.Printf("Advisory: %s\n", est.AdvisoryNote)
	}

	fmt.Println("\nTeam:")
	for _, role := range est.Roles {
		fmt.Printf("  %-40s %4d h  $%s\n", role.Name, role.Hours, role.Cost.StringFixed(2))
	}
	if len(est.Phases) > 0 {
		fmt.Println("\nPhases:")
		for _, phase := range est.Phases {
			fmt.Printf("  %-40s %4d h  $%s\n", phase.Phase, phase.Hours, phase.Cost.StringFixed(2))
		}
	}

	if p.Review != nil && !p.Review.Approved {
		fmt.Println("\nRequires review:")
		for _, issue := range p.Review.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Println("Run with --format sow to print the full Statement of Work.")
}
