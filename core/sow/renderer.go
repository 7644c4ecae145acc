// Package sow renders Statement-of-Work documents and parses existing ones
// back into knowledge records.
//
// Rendering is template interpolation only: no estimation logic lives here.
package sow

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sow-estimator/core/types"
)

// Renderer formats scope + estimate into a SOW document
type Renderer struct {
	now func() time.Time
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithClock injects the clock (tests)
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a SOW renderer
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the markdown SOW document
func (r *Renderer) Render(scope *types.ProjectScope, estimate *types.Estimate, client types.ClientInfo) string {
	var b strings.Builder

	company := client.CompanyName
	if company == "" {
		company = "Client"
	}

	b.WriteString("# STATEMENT OF WORK\n\n")

	b.WriteString("## Project Overview\n")
	fmt.Fprintf(&b, "**Client:** %s\n", company)
	fmt.Fprintf(&b, "**Project Type:** %s\n", titleCase(scope.ProjectType.String()))
	fmt.Fprintf(&b, "**Date:** %s\n\n", r.now().Format("2006-01-02"))

	b.WriteString("## Objectives\n")
	fmt.Fprintf(&b, "- Deliver a %s project with the requested features: %s.\n\n",
		scope.ProjectType, joinFeatures(scope.Features))

	b.WriteString("## Scope of Work\n")
	b.WriteString("### Included Features\n")
	writeFeatureList(&b, scope.Features)
	b.WriteString("\n### Technical Stack\n")
	writeList(&b, scope.Platforms)
	b.WriteString("\n### Integrations\n")
	if len(scope.Integrations) == 0 {
		b.WriteString("None\n")
	} else {
		writeList(&b, scope.Integrations)
	}

	b.WriteString("\n## Deliverables\n")
	b.WriteString("- Fully functional project according to scope\n")
	b.WriteString("- Documentation and user training\n\n")

	b.WriteString("## Timeline and Cost Summary\n")
	fmt.Fprintf(&b, "Total Hours: %d\n", estimate.TotalHours)
	fmt.Fprintf(&b, "Total Cost: $%s\n", estimate.TotalCost)
	fmt.Fprintf(&b, "Confidence: %s (±%.0f%%)\n\n", estimate.Confidence, estimate.Variance*100)

	if len(estimate.Roles) > 0 {
		b.WriteString("### Team Breakdown\n")
		for _, role := range estimate.Roles {
			fmt.Fprintf(&b, "- %s: %d hrs @ $%s/hr = $%s\n", role.Name, role.Hours, role.Rate, role.Cost)
		}
		b.WriteString("\n")
	}

	if len(estimate.Phases) > 0 {
		b.WriteString("### Phase Breakdown\n")
		for _, phase := range estimate.Phases {
			fmt.Fprintf(&b, "- %s: %d hrs ($%s)\n", phase.Phase, phase.Hours, phase.Cost)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Assumptions\n")
	writeList(&b, scope.Assumptions)

	b.WriteString("\n## Payment Schedule\n")
	half := estimate.TotalCost.Div(decimal.NewFromInt(2)).Round(2)
	fmt.Fprintf(&b, "- 50%% upfront: $%s\n", half)
	fmt.Fprintf(&b, "- 50%% on completion: $%s\n\n", half)

	b.WriteString("## Acceptance Criteria\n")
	b.WriteString("- All features implemented and tested\n")
	b.WriteString("- Client approval of deliverables\n")

	return b.String()
}

func joinFeatures(features []types.FeatureTag) string {
	if len(features) == 0 {
		return "none specified"
	}
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

func writeFeatureList(b *strings.Builder, features []types.FeatureTag) {
	for _, f := range features {
		fmt.Fprintf(b, "- %s\n", f)
	}
}

func writeList(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

// titleCase uppercases the first letter of each underscore-separated word
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
