// Package scope assembles the canonical project scope from detected intent
// and questionnaire answers.
//
// Building is total: a missing answer always resolves to a documented
// default, never an error.
package scope

import (
	"strings"

	"sow-estimator/core/types"
)

// DefaultAssumption is recorded when the client stated none
const DefaultAssumption = "No assumptions specified."

// Builder merges intent, answers, and defaults into a ProjectScope
type Builder struct{}

// NewBuilder creates a scope builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build constructs the immutable scope for an estimate
func (b *Builder) Build(intent *types.Intent, answers *types.Answers) *types.ProjectScope {
	if answers == nil {
		answers = &types.Answers{}
	}

	return &types.ProjectScope{
		ProjectType:  intent.ProjectType,
		Features:     compileFeatures(intent, answers),
		Integrations: orEmpty(answers.Integrations),
		Platforms:    determinePlatforms(answers),
		Security:     securityLevel(intent.ProjectType),
		Compliance:   answers.Compliance,
		Assumptions:  assumptions(answers),
	}
}

// compileFeatures unions detected and explicitly listed features,
// preserving first-appearance order
func compileFeatures(intent *types.Intent, answers *types.Answers) []types.FeatureTag {
	features := []types.FeatureTag{}
	seen := make(map[types.FeatureTag]bool)
	for _, f := range intent.Features {
		if !seen[f] {
			features = append(features, f)
			seen[f] = true
		}
	}
	for _, f := range answers.AdditionalFeatures {
		if !seen[f] {
			features = append(features, f)
			seen[f] = true
		}
	}
	return features
}

func determinePlatforms(answers *types.Answers) []string {
	platforms := []string{}
	pref := strings.ToLower(answers.DesignPreferences)
	if strings.Contains(pref, "mobile") || strings.Contains(pref, "responsive") {
		platforms = append(platforms, "Web (Responsive)")
	}
	platforms = append(platforms, answers.Platforms...)
	if len(platforms) == 0 {
		platforms = []string{"Web"}
	}
	return platforms
}

// securityLevel picks the posture per project type. Extend per type as
// templates grow.
func securityLevel(projectType types.ProjectType) types.SecurityLevel {
	if projectType == types.ProjectWebApp {
		return types.SecurityStandard
	}
	return types.SecurityBasic
}

func assumptions(answers *types.Answers) []string {
	if len(answers.Assumptions) > 0 {
		return answers.Assumptions
	}
	return []string{DefaultAssumption}
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
