// Package scope - builder tests
package scope

import (
	"testing"

	"sow-estimator/core/types"
)

// TestBuildDefaults verifies every missing answer resolves to a default
func TestBuildDefaults(t *testing.T) {
	b := NewBuilder()
	detected := &types.Intent{ProjectType: types.ProjectWordPress, Features: []types.FeatureTag{}}

	result := b.Build(detected, nil)

	if result.ProjectType != types.ProjectWordPress {
		t.Errorf("ProjectType = %s, want wordpress", result.ProjectType)
	}
	if result.Features == nil || len(result.Features) != 0 {
		t.Errorf("Features = %v, want empty slice", result.Features)
	}
	if result.Integrations == nil || len(result.Integrations) != 0 {
		t.Errorf("Integrations = %v, want empty slice", result.Integrations)
	}
	if len(result.Platforms) != 1 || result.Platforms[0] != "Web" {
		t.Errorf("Platforms = %v, want [Web]", result.Platforms)
	}
	if result.Security != types.SecurityBasic {
		t.Errorf("Security = %s, want basic", result.Security)
	}
	if len(result.Assumptions) != 1 || result.Assumptions[0] != DefaultAssumption {
		t.Errorf("Assumptions = %v, want [%s]", result.Assumptions, DefaultAssumption)
	}

	if err := result.Validate(); err != nil {
		t.Errorf("default scope failed validation: %v", err)
	}
}

// TestFeatureUnion verifies detected and answered features merge in order
// without duplicates
func TestFeatureUnion(t *testing.T) {
	b := NewBuilder()
	detected := &types.Intent{
		ProjectType: types.ProjectWebApp,
		Features:    []types.FeatureTag{"booking", "auth"},
	}
	answers := &types.Answers{
		AdditionalFeatures: []types.FeatureTag{"auth", "reports"},
	}

	result := b.Build(detected, answers)

	expected := []types.FeatureTag{"booking", "auth", "reports"}
	if len(result.Features) != len(expected) {
		t.Fatalf("Features = %v, want %v", result.Features, expected)
	}
	for i, f := range expected {
		if result.Features[i] != f {
			t.Errorf("Features[%d] = %s, want %s", i, result.Features[i], f)
		}
	}
}

// TestPlatformDerivation verifies the responsive hint and explicit list
func TestPlatformDerivation(t *testing.T) {
	tests := []struct {
		name     string
		answers  *types.Answers
		expected []string
	}{
		{"default", &types.Answers{}, []string{"Web"}},
		{"mobile hint", &types.Answers{DesignPreferences: "mobile-first look"}, []string{"Web (Responsive)"}},
		{"responsive hint", &types.Answers{DesignPreferences: "Responsive and clean"}, []string{"Web (Responsive)"}},
		{"explicit platforms", &types.Answers{Platforms: []string{"iOS", "Android"}}, []string{"iOS", "Android"}},
		{
			"hint plus explicit",
			&types.Answers{DesignPreferences: "responsive", Platforms: []string{"iOS"}},
			[]string{"Web (Responsive)", "iOS"},
		},
	}

	b := NewBuilder()
	detected := &types.Intent{ProjectType: types.ProjectWebApp, Features: []types.FeatureTag{}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := b.Build(detected, tt.answers)
			if len(result.Platforms) != len(tt.expected) {
				t.Fatalf("Platforms = %v, want %v", result.Platforms, tt.expected)
			}
			for i, p := range tt.expected {
				if result.Platforms[i] != p {
					t.Errorf("Platforms[%d] = %s, want %s", i, result.Platforms[i], p)
				}
			}
		})
	}
}

// TestSecurityLevel verifies the per-type posture
func TestSecurityLevel(t *testing.T) {
	b := NewBuilder()

	for projectType, expected := range map[types.ProjectType]types.SecurityLevel{
		types.ProjectWebApp:    types.SecurityStandard,
		types.ProjectWordPress: types.SecurityBasic,
		types.ProjectHubSpot:   types.SecurityBasic,
		types.ProjectCloud:     types.SecurityBasic,
	} {
		detected := &types.Intent{ProjectType: projectType, Features: []types.FeatureTag{}}
		result := b.Build(detected, nil)
		if result.Security != expected {
			t.Errorf("security for %s = %s, want %s", projectType, result.Security, expected)
		}
	}
}

// TestComplianceAndAssumptionsPassThrough verifies verbatim copying
func TestComplianceAndAssumptionsPassThrough(t *testing.T) {
	b := NewBuilder()
	detected := &types.Intent{ProjectType: types.ProjectWebApp, Features: []types.FeatureTag{}}
	answers := &types.Answers{
		Compliance:  "HIPAA",
		Assumptions: []string{"Content provided by client"},
	}

	result := b.Build(detected, answers)

	if result.Compliance != "HIPAA" {
		t.Errorf("Compliance = %q, want HIPAA", result.Compliance)
	}
	if len(result.Assumptions) != 1 || result.Assumptions[0] != "Content provided by client" {
		t.Errorf("Assumptions = %v, want the stated assumption only", result.Assumptions)
	}
}
