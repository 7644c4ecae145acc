// Package review validates finished estimates before they are sent out.
//
// A failed review is not an error: it is a normal terminal state that
// routes the proposal to a human, surfaced as data.
package review

import (
	"strings"

	"github.com/shopspring/decimal"

	"sow-estimator/core/types"
)

// maxRateDeviation is the tolerated relative deviation of a role's
// effective rate from the mean declared rate
const maxRateDeviation = 0.5

// Result is the outcome of validating one estimate
type Result struct {
	// Approved is true when no issues were found
	Approved bool `json:"approved"`

	// Issues lists what a human must look at
	Issues []string `json:"issues"`
}

// Gate validates scope/estimate pairs
type Gate struct{}

// NewGate creates a review gate
func NewGate() *Gate {
	return &Gate{}
}

// Validate flags low-confidence estimates, unresolved placeholder
// features, and pricing anomalies
func (g *Gate) Validate(scope *types.ProjectScope, estimate *types.Estimate) *Result {
	issues := []string{}

	if estimate.Confidence == types.ConfidenceP50 {
		issues = append(issues, "Low confidence estimate - requires PM review")
	}

	for _, feature := range scope.Features {
		if strings.Contains(string(feature), "TBD") {
			issues = append(issues, "Undefined features in scope")
			break
		}
	}

	if hasPricingAnomaly(estimate) {
		issues = append(issues, "Pricing anomaly detected")
	}

	return &Result{
		Approved: len(issues) == 0,
		Issues:   issues,
	}
}

// hasPricingAnomaly reports whether any role's effective rate
// (cost / max(hours, 1)) deviates more than maxRateDeviation from the
// mean declared rate across roles
func hasPricingAnomaly(estimate *types.Estimate) bool {
	if len(estimate.Roles) == 0 {
		return false
	}

	sum := decimal.Zero
	for _, role := range estimate.Roles {
		sum = sum.Add(role.Rate)
	}
	avgRate := sum.Div(decimal.NewFromInt(int64(len(estimate.Roles))))
	if avgRate.IsZero() {
		return false
	}

	for _, role := range estimate.Roles {
		hours := role.Hours
		if hours < 1 {
			hours = 1
		}
		effective := role.Cost.Div(decimal.NewFromInt(int64(hours)))
		deviation := effective.Sub(avgRate).Abs().Div(avgRate)
		if deviation.InexactFloat64() > maxRateDeviation {
			return true
		}
	}
	return false
}
