// Package types - Project scope
package types

import "sow-estimator/internal/errors"

// SecurityLevel expresses the required security posture
type SecurityLevel string

const (
	// SecurityBasic is the default posture
	SecurityBasic SecurityLevel = "basic"

	// SecurityStandard adds hardening expected of custom applications
	SecurityStandard SecurityLevel = "standard"
)

// ProjectScope is the canonical, immutable description of what is being
// built. It is assembled once from intent + answers and then only read.
type ProjectScope struct {
	// ProjectType is the detected project type
	ProjectType ProjectType `json:"projectType"`

	// Features is the deduplicated feature set, insertion order
	Features []FeatureTag `json:"features"`

	// Integrations lists external systems to integrate with
	Integrations []string `json:"integrations"`

	// Platforms lists target platforms
	Platforms []string `json:"platforms"`

	// Security is the required security level
	Security SecurityLevel `json:"security"`

	// Compliance names compliance standards, empty when none
	Compliance string `json:"compliance"`

	// Assumptions documents estimation assumptions
	Assumptions []string `json:"assumptions"`
}

// HasFeature reports whether the scope includes a feature tag
func (s *ProjectScope) HasFeature(tag FeatureTag) bool {
	for _, f := range s.Features {
		if f == tag {
			return true
		}
	}
	return false
}

// Validate checks structural integrity. A malformed scope is a programmer
// error and the only fatal condition in the estimation path.
func (s *ProjectScope) Validate() error {
	if s == nil {
		return errors.Internal("nil project scope", nil)
	}
	if s.ProjectType == "" {
		return errors.Internal("project scope has empty project type", nil)
	}
	if s.Features == nil {
		return errors.Internal("project scope has nil feature set", nil)
	}
	if s.Platforms == nil {
		return errors.Internal("project scope has nil platform list", nil)
	}
	return nil
}
