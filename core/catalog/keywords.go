// Package catalog - Detection keyword tables
package catalog

import "sow-estimator/core/types"

// defaultTypeSignals returns the type detection table. Order is the fixed
// detection priority: WordPress signals beat CRM signals beat web-app
// signals beat cloud signals.
func defaultTypeSignals() []TypeSignal {
	return []TypeSignal{
		{
			Type:     types.ProjectWordPress,
			Keywords: []string{"wordpress", "wp", "cms"},
		},
		{
			Type:     types.ProjectHubSpot,
			Keywords: []string{"hubspot", "crm", "portal"},
		},
		{
			Type:     types.ProjectWebApp,
			Keywords: []string{".net", "react", "web app", "application"},
		},
		{
			Type:     types.ProjectCloud,
			Keywords: []string{"aws", "azure", "cloud", "hosting", "ci/cd"},
		},
	}
}

// defaultFeatureKeywords returns the feature detection table. A feature is
// present when any of its keywords occurs in the lowered text.
func defaultFeatureKeywords() []FeatureKeyword {
	return []FeatureKeyword{
		{Tag: "booking", Keywords: []string{"appointment", "booking", "schedule"}},
		{Tag: "blog", Keywords: []string{"blog", "articles", "posts"}},
		{Tag: "reviews", Keywords: []string{"review", "rating", "testimonial"}},
		{Tag: "ecommerce", Keywords: []string{"shop", "store", "payment", "cart"}},
		{Tag: "auth", Keywords: []string{"login", "register", "authentication"}},
		{Tag: "api", Keywords: []string{"api", "integration", "connect"}},
	}
}

// defaultExpectedFields returns the missing-field tables. A field counts as
// covered when its trigger word occurs anywhere in the raw input text.
func defaultExpectedFields() map[types.ProjectType][]ExpectedField {
	return map[types.ProjectType][]ExpectedField{
		types.ProjectWordPress: {
			{Field: "design_preferences", Trigger: "design"},
			{Field: "content_migration", Trigger: "content"},
			{Field: "specific_plugins", Trigger: "plugins"},
		},
		types.ProjectWebApp: {
			{Field: "target_users", Trigger: "users"},
			{Field: "data_volume", Trigger: "data"},
			{Field: "external_integrations", Trigger: "integrations"},
		},
		types.ProjectHubSpot: {
			{Field: "crm_setup_details", Trigger: "crm"},
			{Field: "portal_requirements", Trigger: "portal"},
			{Field: "integration_needs", Trigger: "integration"},
		},
		types.ProjectCloud: {
			{Field: "ci_cd_setup", Trigger: "ci/cd"},
			{Field: "monitoring_requirements", Trigger: "monitoring"},
			{Field: "backup_strategy", Trigger: "backup"},
		},
	}
}
