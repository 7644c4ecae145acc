// Package intent implements feature and project-type extraction from raw
// client text.
//
// Extraction is a pure function of the input text and the catalog keyword
// tables: case-insensitive substring matching, no NLP, no side effects.
// It is total: any string, including the empty string, yields a valid
// result.
package intent

import (
	"fmt"
	"strings"

	"sow-estimator/core/catalog"
	"sow-estimator/core/types"
)

// Extractor detects project type, features, and missing fields
type Extractor struct {
	catalog *catalog.Catalog
}

// NewExtractor creates an extractor over the given catalog
func NewExtractor(c *catalog.Catalog) *Extractor {
	return &Extractor{catalog: c}
}

// Extract parses the client text and returns the detected intent
func (e *Extractor) Extract(text string) *types.Intent {
	lowered := strings.ToLower(text)

	projectType := e.detectType(lowered)
	features := e.detectFeatures(lowered)

	return &types.Intent{
		ProjectType:   projectType,
		Features:      features,
		MissingFields: e.missingFields(projectType, lowered),
		Summary:       summarize(projectType, features),
	}
}

// detectType returns the first matching type signal, in priority order
func (e *Extractor) detectType(lowered string) types.ProjectType {
	for _, signal := range e.catalog.TypeSignals {
		for _, keyword := range signal.Keywords {
			if strings.Contains(lowered, keyword) {
				return signal.Type
			}
		}
	}
	return types.ProjectUnknown
}

// detectFeatures returns the deduplicated feature tags in first-detection
// order
func (e *Extractor) detectFeatures(lowered string) []types.FeatureTag {
	features := []types.FeatureTag{}
	for _, fk := range e.catalog.FeatureKeywords {
		for _, keyword := range fk.Keywords {
			if strings.Contains(lowered, keyword) {
				features = append(features, fk.Tag)
				break
			}
		}
	}
	return features
}

// missingFields lists expected fields whose trigger word is absent from
// the text, in declaration order
func (e *Extractor) missingFields(projectType types.ProjectType, lowered string) []string {
	missing := []string{}
	for _, field := range e.catalog.ExpectedFields[projectType] {
		if !strings.Contains(lowered, field.Trigger) {
			missing = append(missing, field.Field)
		}
	}
	return missing
}

func summarize(projectType types.ProjectType, features []types.FeatureTag) string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.String()
	}
	featureList := "no specific features"
	if len(names) > 0 {
		featureList = strings.Join(names, ", ")
	}
	return fmt.Sprintf("Detected project type: %s. Features mentioned: %s.", projectType, featureList)
}
