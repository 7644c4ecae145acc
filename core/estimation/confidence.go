// Package estimation - Confidence scoring
package estimation

import "sow-estimator/core/types"

// Confidence signal constants. Four signals are averaged: feature clarity,
// requirements completeness, historical similarity, and integration
// complexity.
const (
	featureClarityHigh = 0.8
	featureClarityLow  = 0.3

	requirementsCompleteness = 0.7

	integrationSimple  = 0.8
	integrationComplex = 0.6

	// complexIntegrationCount is the integration count above which the
	// complexity signal degrades
	complexIntegrationCount = 2
)

// confidenceScore averages the four confidence signals for a scope
func confidenceScore(scope *types.ProjectScope, similarity float64) float64 {
	clarity := featureClarityLow
	if len(scope.Features) > 0 {
		clarity = featureClarityHigh
	}

	integration := integrationSimple
	if len(scope.Integrations) > complexIntegrationCount {
		integration = integrationComplex
	}

	return (clarity + requirementsCompleteness + similarity + integration) / 4
}

// confidenceLevel maps an averaged score to its bucket
func confidenceLevel(score float64) types.ConfidenceLevel {
	switch {
	case score >= 0.8:
		return types.ConfidenceP90
	case score >= 0.7:
		return types.ConfidenceP80
	case score >= 0.6:
		return types.ConfidenceP70
	default:
		return types.ConfidenceP50
	}
}
