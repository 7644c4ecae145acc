// Package types - Estimate value objects
package types

import "github.com/shopspring/decimal"

// ConfidenceLevel is an ordered reliability bucket for an estimate.
// Ordering: P90 > P80 > P70 > P50.
type ConfidenceLevel string

const (
	// ConfidenceP90 means the estimate should hold in 90% of outcomes
	ConfidenceP90 ConfidenceLevel = "P90"

	// ConfidenceP80 means the estimate should hold in 80% of outcomes
	ConfidenceP80 ConfidenceLevel = "P80"

	// ConfidenceP70 means the estimate should hold in 70% of outcomes
	ConfidenceP70 ConfidenceLevel = "P70"

	// ConfidenceP50 is a coin-flip estimate that needs review
	ConfidenceP50 ConfidenceLevel = "P50"
)

// Variance returns the variance percentage paired with the level
func (c ConfidenceLevel) Variance() float64 {
	switch c {
	case ConfidenceP90:
		return 0.10
	case ConfidenceP80:
		return 0.15
	case ConfidenceP70:
		return 0.20
	default:
		return 0.30
	}
}

// String returns the string representation
func (c ConfidenceLevel) String() string {
	return string(c)
}

// CostSource records which path produced the final cost figure, so callers
// can distinguish a fallback from a success instead of guessing.
type CostSource string

const (
	// CostSourceHeuristic is the pure template/heuristic calculation
	CostSourceHeuristic CostSource = "heuristic"

	// CostSourceBlended means historical smoothing was applied
	CostSourceBlended CostSource = "blended"

	// CostSourceAdvisory means an external advisory correction was accepted
	CostSourceAdvisory CostSource = "advisory"
)

// RoleAllocation assigns hours and cost to one team role.
// Invariant: Cost == round(Hours * Rate).
type RoleAllocation struct {
	// Name is the canonical role name
	Name string `json:"name"`

	// Hours is the allocated hours, rounded
	Hours int `json:"hours"`

	// Rate is the hourly rate applied
	Rate decimal.Decimal `json:"rate"`

	// Cost is the role cost (Hours * Rate, rounded)
	Cost decimal.Decimal `json:"cost"`
}

// PhaseAllocation assigns hours and cost to one delivery phase
type PhaseAllocation struct {
	// Phase is the phase name
	Phase string `json:"phase"`

	// Hours is the allocated hours, rounded
	Hours int `json:"hours"`

	// Cost is the phase cost at the average card rate, rounded
	Cost decimal.Decimal `json:"cost"`
}

// Estimate is the complete cost/scope estimation result
type Estimate struct {
	// ID uniquely identifies this estimate
	ID string `json:"id,omitempty"`

	// Roles is the team composition with per-role hours and cost
	Roles []RoleAllocation `json:"roles"`

	// Phases is the phase breakdown, independent of role allocation
	Phases []PhaseAllocation `json:"phases"`

	// TotalHours is the complexity-adjusted total, rounded to whole hours
	TotalHours int `json:"totalHours"`

	// TotalCost is the presented total, rounded per configuration
	TotalCost decimal.Decimal `json:"totalCost"`

	// Confidence is the reliability bucket
	Confidence ConfidenceLevel `json:"confidence"`

	// Variance is the variance percentage paired with Confidence
	Variance float64 `json:"variance"`

	// Source records which path produced TotalCost
	Source CostSource `json:"costSource"`

	// AdvisoryNote is the advisory corrector's rationale, when accepted
	AdvisoryNote string `json:"advisoryNote,omitempty"`
}

// RoleHours sums the allocated hours across roles
func (e *Estimate) RoleHours() int {
	total := 0
	for _, r := range e.Roles {
		total += r.Hours
	}
	return total
}

// PhaseHours sums the allocated hours across phases
func (e *Estimate) PhaseHours() int {
	total := 0
	for _, p := range e.Phases {
		total += p.Hours
	}
	return total
}
