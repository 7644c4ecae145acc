// Package estimation - Engine parameterizations
package estimation

// Mode selects the estimator parameterization
type Mode string

const (
	// ModeTemplate is the richer per-type role/phase table model
	ModeTemplate Mode = "template"

	// ModeLightweight is the flat-fraction additive model with
	// historical/advisory blending
	ModeLightweight Mode = "lightweight"
)

// Config carries the numeric parameters of one estimation mode. The two
// modes evolved independently; their constants are preserved as distinct
// named configurations rather than merged.
type Config struct {
	// Mode selects the parameterization
	Mode Mode

	// IntegrationFactor is the multiplier contribution per integration
	IntegrationFactor float64

	// SecurityFactor applies when security is set and not basic
	SecurityFactor float64

	// ComplianceFactor applies when compliance is non-empty
	ComplianceFactor float64

	// ManagementBuffer is the fixed project-management contribution,
	// always applied
	ManagementBuffer float64

	// BaseHours is the lightweight additive model's starting budget
	BaseHours int

	// HoursPerFeature is the lightweight per-feature weight
	HoursPerFeature int

	// HoursPerIntegration is the lightweight per-integration weight
	HoursPerIntegration int

	// ClarityReduction is the lightweight per-answer hour reduction
	ClarityReduction int

	// MinimumHours is the hard floor on total hours (lightweight only;
	// zero disables the floor)
	MinimumHours int

	// CostRounding rounds the presented total cost to the nearest
	// multiple (e.g. 100); zero keeps cents
	CostRounding int64

	// BlendHeuristicWeight weighs the heuristic cost in historical
	// blending
	BlendHeuristicWeight float64

	// BlendHistoricalWeight weighs the historical average price
	BlendHistoricalWeight float64
}

// TemplateConfig returns the template-mode parameterization
func TemplateConfig() Config {
	return Config{
		Mode:              ModeTemplate,
		IntegrationFactor: 0.1,
		SecurityFactor:    0.2,
		ComplianceFactor:  0.3,
		ManagementBuffer:  0.15,
		CostRounding:      100,
	}
}

// LightweightConfig returns the lightweight-mode parameterization
func LightweightConfig() Config {
	return Config{
		Mode:                  ModeLightweight,
		BaseHours:             40,
		HoursPerFeature:       12,
		HoursPerIntegration:   10,
		ClarityReduction:      3,
		MinimumHours:          20,
		BlendHeuristicWeight:  0.6,
		BlendHistoricalWeight: 0.4,
	}
}

// ConfigForMode returns the named configuration for a mode string,
// defaulting to template mode
func ConfigForMode(mode string) Config {
	if Mode(mode) == ModeLightweight {
		return LightweightConfig()
	}
	return TemplateConfig()
}

// ConfigWithOverrides returns the mode configuration with positive
// overrides applied to its tunable constants. MinimumHours applies only in
// lightweight mode and CostRounding only in template mode, the modes that
// read them.
func ConfigWithOverrides(mode string, minimumHours, costRounding int) Config {
	cfg := ConfigForMode(mode)
	if cfg.Mode == ModeLightweight && minimumHours > 0 {
		cfg.MinimumHours = minimumHours
	}
	if cfg.Mode == ModeTemplate && costRounding > 0 {
		cfg.CostRounding = int64(costRounding)
	}
	return cfg
}
