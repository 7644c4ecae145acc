// Package catalog holds the estimation configuration data: keyword tables,
// per-type templates, question lists, and the default rate card.
//
// The catalog is loaded once at startup and treated as immutable afterwards.
// It is configuration, not logic: the extractor and the engine receive it by
// reference and never embed their own tables.
package catalog

import (
	"github.com/shopspring/decimal"

	"sow-estimator/core/types"
)

// RoleFraction allocates a fraction of total hours to one role.
// Fractions within a template sum to 1.0.
type RoleFraction struct {
	// Role is the canonical role name
	Role string `json:"role" yaml:"role"`

	// Fraction is the share of total hours, in (0,1]
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// PhaseFraction allocates a fraction of total hours to one delivery phase
type PhaseFraction struct {
	// Phase is the phase name
	Phase string `json:"phase" yaml:"phase"`

	// Fraction is the share of total hours, in (0,1]
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// Template is the per-project-type cost model
type Template struct {
	// BaseHours is the starting hour budget for the type
	BaseHours int `json:"base_hours" yaml:"base_hours"`

	// FeatureHours maps feature tags to fixed additional hours
	FeatureHours map[types.FeatureTag]int `json:"feature_hours" yaml:"feature_hours"`

	// Team is the role composition, fractions summing to 1.0
	Team []RoleFraction `json:"team" yaml:"team"`

	// Phases is the phase distribution, fractions summing to 1.0
	Phases []PhaseFraction `json:"phases" yaml:"phases"`
}

// TypeSignal associates a project type with its detection keywords.
// Signals are evaluated in slice order; first match wins.
type TypeSignal struct {
	// Type is the project type to report on match
	Type types.ProjectType `json:"type" yaml:"type"`

	// Keywords are lowercased substrings that signal the type
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// FeatureKeyword associates a feature tag with its detection keywords
type FeatureKeyword struct {
	// Tag is the feature tag to report on match
	Tag types.FeatureTag `json:"tag" yaml:"tag"`

	// Keywords are lowercased substrings; any one marks the feature present
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ExpectedField is a field the questionnaire expects the client to cover.
// The field counts as present when Trigger occurs in the raw input text.
type ExpectedField struct {
	// Field is the field identifier
	Field string `json:"field" yaml:"field"`

	// Trigger is the lowercased substring that marks the field covered
	Trigger string `json:"trigger" yaml:"trigger"`
}

// Catalog is the complete, immutable estimation configuration
type Catalog struct {
	// TypeSignals is the type detection table, in priority order
	TypeSignals []TypeSignal `json:"type_signals" yaml:"type_signals"`

	// FeatureKeywords is the feature detection table
	FeatureKeywords []FeatureKeyword `json:"feature_keywords" yaml:"feature_keywords"`

	// Templates maps project types to their cost model
	Templates map[types.ProjectType]*Template `json:"templates" yaml:"templates"`

	// ExpectedFields maps project types to their expected-field tables
	ExpectedFields map[types.ProjectType][]ExpectedField `json:"expected_fields" yaml:"expected_fields"`

	// BaseQuestions maps project types to their fixed clarifying questions
	BaseQuestions map[types.ProjectType][]string `json:"base_questions" yaml:"base_questions"`

	// FieldQuestions maps missing-field identifiers to follow-up questions;
	// fields absent from the map produce no question
	FieldQuestions map[string]string `json:"field_questions" yaml:"field_questions"`

	// GenericQuestions pad the plan when too few questions remain
	GenericQuestions []string `json:"generic_questions" yaml:"generic_questions"`

	// LightweightTeam is the flat role composition of lightweight mode
	LightweightTeam []RoleFraction `json:"lightweight_team" yaml:"lightweight_team"`

	// DefaultRateCard seeds the rate card store on first use
	DefaultRateCard types.RateCard `json:"default_rate_card" yaml:"-"`

	// CanonicalRoles is the closed set of role names accepted on the card
	CanonicalRoles map[string]bool `json:"-" yaml:"-"`

	// DefaultBaseHours applies when a type has no template
	DefaultBaseHours int `json:"default_base_hours" yaml:"default_base_hours"`

	// DefaultRate applies when a role is missing from the card
	DefaultRate decimal.Decimal `json:"-" yaml:"-"`

	// LightweightDefaultRate is the missing-role fallback in lightweight mode
	LightweightDefaultRate decimal.Decimal `json:"-" yaml:"-"`

	// IntegrationHours is the fixed hour cost per integration
	IntegrationHours int `json:"integration_hours" yaml:"integration_hours"`
}

// TemplateFor returns the template for a type, nil when untemplated
func (c *Catalog) TemplateFor(t types.ProjectType) *Template {
	return c.Templates[t]
}

// PhasesFor returns the phase distribution for a type, falling back to the
// web_app distribution when the type has no template of its own.
func (c *Catalog) PhasesFor(t types.ProjectType) []PhaseFraction {
	if tpl := c.Templates[t]; tpl != nil && len(tpl.Phases) > 0 {
		return tpl.Phases
	}
	if tpl := c.Templates[types.ProjectWebApp]; tpl != nil {
		return tpl.Phases
	}
	return nil
}

// Default returns the built-in catalog
func Default() *Catalog {
	c := &Catalog{
		TypeSignals:      defaultTypeSignals(),
		FeatureKeywords:  defaultFeatureKeywords(),
		Templates:        defaultTemplates(),
		ExpectedFields:   defaultExpectedFields(),
		BaseQuestions:    defaultBaseQuestions(),
		FieldQuestions:   defaultFieldQuestions(),
		GenericQuestions: defaultGenericQuestions(),
		LightweightTeam:  defaultLightweightTeam(),
		DefaultRateCard:  defaultRateCard(),

		DefaultBaseHours:       100,
		DefaultRate:            decimal.NewFromInt(85),
		LightweightDefaultRate: decimal.NewFromInt(90),
		IntegrationHours:       10,
	}
	c.CanonicalRoles = canonicalRoles(c)
	return c
}

// canonicalRoles collects every role named by a template, the lightweight
// composition, or the default card
func canonicalRoles(c *Catalog) map[string]bool {
	roles := make(map[string]bool)
	for _, tpl := range c.Templates {
		for _, rf := range tpl.Team {
			roles[rf.Role] = true
		}
	}
	for _, rf := range c.LightweightTeam {
		roles[rf.Role] = true
	}
	for role := range c.DefaultRateCard {
		roles[role] = true
	}
	return roles
}

func defaultTemplates() map[types.ProjectType]*Template {
	return map[types.ProjectType]*Template{
		types.ProjectWordPress: {
			BaseHours: 80,
			FeatureHours: map[types.FeatureTag]int{
				"booking":       40,
				"blog":          20,
				"reviews":       25,
				"ecommerce":     60,
				"contact_forms": 15,
			},
			Team: []RoleFraction{
				{Role: "Project Manager", Fraction: 0.15},
				{Role: "WordPress Developer", Fraction: 0.60},
				{Role: "UI/UX Designer", Fraction: 0.25},
			},
			Phases: []PhaseFraction{
				{Phase: "Discovery & Planning", Fraction: 0.10},
				{Phase: "Design", Fraction: 0.25},
				{Phase: "Development", Fraction: 0.45},
				{Phase: "Testing", Fraction: 0.15},
				{Phase: "Deployment", Fraction: 0.05},
			},
		},
		types.ProjectWebApp: {
			BaseHours: 120,
			FeatureHours: map[types.FeatureTag]int{
				"auth":    40,
				"crud":    60,
				"reports": 50,
				"api":     45,
			},
			Team: []RoleFraction{
				{Role: "Project Manager", Fraction: 0.12},
				{Role: "Frontend Dev", Fraction: 0.35},
				{Role: "Backend Dev", Fraction: 0.40},
				{Role: "QA Engineer", Fraction: 0.13},
			},
			Phases: []PhaseFraction{
				{Phase: "Discovery & Planning", Fraction: 0.15},
				{Phase: "Design", Fraction: 0.20},
				{Phase: "Development", Fraction: 0.40},
				{Phase: "Testing", Fraction: 0.20},
				{Phase: "Deployment", Fraction: 0.05},
			},
		},
		types.ProjectHubSpot: {
			BaseHours: 100,
			FeatureHours: map[types.FeatureTag]int{
				"crm_setup":   40,
				"portal":      80,
				"integration": 60,
			},
			Team: []RoleFraction{
				{Role: "Project Manager", Fraction: 0.10},
				{Role: "HubSpot Developer", Fraction: 0.70},
				{Role: "QA Engineer", Fraction: 0.20},
			},
			Phases: []PhaseFraction{
				{Phase: "Discovery & Planning", Fraction: 0.15},
				{Phase: "Configuration", Fraction: 0.35},
				{Phase: "Development", Fraction: 0.30},
				{Phase: "Testing", Fraction: 0.15},
				{Phase: "Training", Fraction: 0.05},
			},
		},
		types.ProjectCloud: {
			BaseHours: 40,
			FeatureHours: map[types.FeatureTag]int{
				"ci_cd":      30,
				"monitoring": 25,
				"backup":     20,
			},
			Team: []RoleFraction{
				{Role: "Project Manager", Fraction: 0.10},
				{Role: "DevOps Engineer", Fraction: 0.70},
				{Role: "Cloud Architect", Fraction: 0.20},
			},
			Phases: []PhaseFraction{
				{Phase: "Planning", Fraction: 0.20},
				{Phase: "Implementation", Fraction: 0.50},
				{Phase: "Testing", Fraction: 0.20},
				{Phase: "Documentation", Fraction: 0.10},
			},
		},
	}
}

func defaultLightweightTeam() []RoleFraction {
	return []RoleFraction{
		{Role: "Software Developer", Fraction: 0.50},
		{Role: "Senior Software Developer", Fraction: 0.18},
		{Role: "Software Architect", Fraction: 0.06},
		{Role: "WordPress Developer", Fraction: 0.12},
		{Role: "Project Manager", Fraction: 0.08},
		{Role: "Cloud Architect / DevOps Engineer", Fraction: 0.06},
	}
}

func defaultRateCard() types.RateCard {
	return types.RateCard{
		"Frontend Dev":                      decimal.NewFromInt(85),
		"Backend Dev":                       decimal.NewFromInt(95),
		"Full Stack Dev":                    decimal.NewFromInt(90),
		"DevOps Engineer":                   decimal.NewFromInt(105),
		"Project Manager":                   decimal.NewFromInt(90),
		"QA Engineer":                       decimal.NewFromInt(75),
		"UI/UX Designer":                    decimal.NewFromInt(85),
		"WordPress Developer":               decimal.NewFromInt(80),
		"HubSpot Developer":                 decimal.NewFromInt(95),
		"Cloud Architect":                   decimal.NewFromInt(110),
		"Software Developer":                decimal.NewFromInt(80),
		"Senior Software Developer":         decimal.NewFromInt(120),
		"Software Architect":                decimal.NewFromInt(150),
		"Cloud Architect / DevOps Engineer": decimal.NewFromInt(140),
	}
}
