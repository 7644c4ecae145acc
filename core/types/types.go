// Package types defines the shared value objects of the estimation core.
// Everything here is plain data: no I/O, no collaborator calls.
package types

// ProjectType classifies the kind of delivery project being estimated
type ProjectType string

const (
	// ProjectWordPress is a WordPress/CMS build
	ProjectWordPress ProjectType = "wordpress"

	// ProjectWebApp is a custom web application
	ProjectWebApp ProjectType = "web_app"

	// ProjectHubSpot is a HubSpot/CRM implementation
	ProjectHubSpot ProjectType = "hubspot"

	// ProjectCloud is cloud infrastructure / DevOps work
	ProjectCloud ProjectType = "cloud"

	// ProjectUnknown is the fallback when no signal matched
	ProjectUnknown ProjectType = "unknown"
)

// String returns the string representation
func (p ProjectType) String() string {
	return string(p)
}

// IsKnown reports whether the type was positively detected
func (p ProjectType) IsKnown() bool {
	return p != ProjectUnknown && p != ""
}

// FeatureTag is a short identifier for a detected capability requirement
// (e.g. "booking", "auth", "ecommerce")
type FeatureTag string

// String returns the string representation
func (f FeatureTag) String() string {
	return string(f)
}

// ClientInfo carries client metadata used when rendering the SOW.
// The core never interprets it beyond simple interpolation.
type ClientInfo struct {
	// CompanyName is the client company name
	CompanyName string `json:"company_name,omitempty"`

	// ContactEmail is the primary contact address
	ContactEmail string `json:"contact_email,omitempty"`
}

// Answers holds the structured questionnaire answers consumed by the
// scope builder. Every field is optional; absence resolves to a default.
type Answers struct {
	// AdditionalFeatures lists features the client named explicitly
	AdditionalFeatures []FeatureTag `json:"additional_features,omitempty"`

	// Integrations lists third-party systems to integrate with
	Integrations []string `json:"integrations,omitempty"`

	// Platforms lists explicitly requested target platforms
	Platforms []string `json:"platforms,omitempty"`

	// DesignPreferences is the free-text design preference answer
	DesignPreferences string `json:"design_preferences,omitempty"`

	// Compliance names compliance standards to meet (HIPAA, GDPR, ...)
	Compliance string `json:"compliance,omitempty"`

	// Assumptions lists client-stated assumptions or constraints
	Assumptions []string `json:"assumptions,omitempty"`
}

// AnswerItem is one collected question/answer pair from a clarification
// round. Used by the lightweight estimation mode.
type AnswerItem struct {
	// Question is the clarifying question that was asked
	Question string `json:"question"`

	// Answer is the client's reply
	Answer string `json:"answer"`
}

// Intent is the result of feature extraction over raw client text
type Intent struct {
	// ProjectType is the detected project type
	ProjectType ProjectType `json:"projectType"`

	// Features are the detected feature tags, first-detection order
	Features []FeatureTag `json:"detectedFeatures"`

	// MissingFields lists expected fields with no signal in the text,
	// in fixed declaration order
	MissingFields []string `json:"missingFields"`

	// Summary is a short human-readable recap of the detection
	Summary string `json:"summary"`
}

// HasFeature reports whether a tag was detected
func (i *Intent) HasFeature(tag FeatureTag) bool {
	for _, f := range i.Features {
		if f == tag {
			return true
		}
	}
	return false
}
