// Package catalog - Question tables
package catalog

import "sow-estimator/core/types"

// defaultBaseQuestions returns the fixed per-type clarifying questions.
// Unknown projects have no base list; the planner pads from the generic
// questions instead.
func defaultBaseQuestions() map[types.ProjectType][]string {
	return map[types.ProjectType][]string{
		types.ProjectWordPress: {
			"Do you have existing brand guidelines or design preferences?",
			"Will you need content migration from an existing website?",
			"What specific functionality do you need beyond basic pages?",
			"Do you have preferred hosting or domain setup?",
			"What's your expected timeline for launch?",
		},
		types.ProjectWebApp: {
			"Who are the primary users of this application?",
			"What's the expected number of concurrent users?",
			"Do you need mobile responsiveness or native mobile apps?",
			"What security requirements do you have?",
			"Are there existing systems to integrate with?",
		},
		types.ProjectHubSpot: {
			"Is this a new HubSpot instance or an existing account?",
			"Which hubs do you use or plan to use (Marketing, Sales, Service)?",
			"Do you need a customer portal or member-only content?",
			"Which systems should HubSpot sync with (ERP, billing, support)?",
			"How many contacts and deals are you migrating?",
		},
		types.ProjectCloud: {
			"Which cloud provider do you prefer (AWS, Azure, GCP)?",
			"Do you have an existing CI/CD setup to build on?",
			"What are your uptime and monitoring expectations?",
			"What's your backup and disaster-recovery requirement?",
			"Are there workloads that must stay on-premises?",
		},
	}
}

// defaultFieldQuestions maps missing-field identifiers to their follow-up
// question. Fields outside this map produce no question.
func defaultFieldQuestions() map[string]string {
	return map[string]string{
		"projectType":  "What kind of project is this (e.g., web app, WordPress site, HubSpot portal)?",
		"features":     "Which key features are required (e.g., booking, e-commerce, CRM)?",
		"integrations": "Are there integrations with other systems or APIs?",
		"platforms":    "Which platforms should this run on (e.g., web, iOS, Android)?",
		"security":     "Do you have specific security or authentication needs?",
		"compliance":   "Are there compliance standards to meet (HIPAA, GDPR, etc.)?",
		"assumptions":  "Any assumptions or constraints we should be aware of?",
	}
}

// defaultGenericQuestions pad a plan that would otherwise fall below the
// minimum question count
func defaultGenericQuestions() []string {
	return []string{
		"What's the target launch timeframe (rough)?",
		"Who are the primary users of this product?",
		"Which core features must be included (e.g. auth, payments, search, user profiles)?",
		"Any required third-party integrations (CRM, payment, identity)?",
		"Who will provide content (text/images)?",
		"Do you have a preferred budget range or ballpark figure?",
	}
}
