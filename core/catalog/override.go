// Package catalog - YAML overrides
package catalog

import (
	"os"

	"gopkg.in/yaml.v3"

	"sow-estimator/core/types"
	"sow-estimator/internal/errors"
)

// Override is the YAML-loadable subset of the catalog. Only the sections
// present in the file replace their built-in counterparts; everything else
// keeps its default.
type Override struct {
	TypeSignals      []TypeSignal                          `yaml:"type_signals"`
	FeatureKeywords  []FeatureKeyword                      `yaml:"feature_keywords"`
	Templates        map[types.ProjectType]*Template       `yaml:"templates"`
	ExpectedFields   map[types.ProjectType][]ExpectedField `yaml:"expected_fields"`
	BaseQuestions    map[types.ProjectType][]string        `yaml:"base_questions"`
	FieldQuestions   map[string]string                     `yaml:"field_questions"`
	GenericQuestions []string                              `yaml:"generic_questions"`
	LightweightTeam  []RoleFraction                        `yaml:"lightweight_team"`
	DefaultBaseHours int                                   `yaml:"default_base_hours"`
	IntegrationHours int                                   `yaml:"integration_hours"`
}

// LoadWithOverride returns the default catalog with the override file
// applied on top. The result is validated before being returned.
func LoadWithOverride(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("reading catalog override", err)
	}

	var ov Override
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, errors.Config("parsing catalog override", err)
	}

	c.apply(&ov)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) apply(ov *Override) {
	if len(ov.TypeSignals) > 0 {
		c.TypeSignals = ov.TypeSignals
	}
	if len(ov.FeatureKeywords) > 0 {
		c.FeatureKeywords = ov.FeatureKeywords
	}
	if len(ov.Templates) > 0 {
		c.Templates = ov.Templates
	}
	if len(ov.ExpectedFields) > 0 {
		c.ExpectedFields = ov.ExpectedFields
	}
	if len(ov.BaseQuestions) > 0 {
		c.BaseQuestions = ov.BaseQuestions
	}
	if len(ov.FieldQuestions) > 0 {
		c.FieldQuestions = ov.FieldQuestions
	}
	if len(ov.GenericQuestions) > 0 {
		c.GenericQuestions = ov.GenericQuestions
	}
	if len(ov.LightweightTeam) > 0 {
		c.LightweightTeam = ov.LightweightTeam
	}
	if ov.DefaultBaseHours > 0 {
		c.DefaultBaseHours = ov.DefaultBaseHours
	}
	if ov.IntegrationHours > 0 {
		c.IntegrationHours = ov.IntegrationHours
	}
	// Overridden templates may introduce new roles
	c.CanonicalRoles = canonicalRoles(c)
}
