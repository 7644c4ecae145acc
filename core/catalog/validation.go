// Package catalog - Catalog validation
package catalog

import (
	"math"

	"sow-estimator/internal/errors"
)

// fractionTolerance absorbs float representation error when checking that
// allocation fractions sum to 1.0
const fractionTolerance = 1e-9

// Validate checks the structural invariants of the catalog: every template
// has positive base hours, team and phase fractions sum to 1.0, and the
// detection tables are non-empty.
func (c *Catalog) Validate() error {
	if len(c.TypeSignals) == 0 {
		return errors.Config("catalog has no type signals", nil)
	}
	if len(c.FeatureKeywords) == 0 {
		return errors.Config("catalog has no feature keywords", nil)
	}
	if c.DefaultBaseHours <= 0 {
		return errors.Config("default base hours must be positive", nil)
	}

	for projectType, tpl := range c.Templates {
		if tpl.BaseHours <= 0 {
			return errors.Newf(errors.TypeConfig, "template %s: base hours must be positive", projectType)
		}
		if err := checkFractions(string(projectType)+" team", roleFractions(tpl.Team)); err != nil {
			return err
		}
		if err := checkFractions(string(projectType)+" phases", phaseFractions(tpl.Phases)); err != nil {
			return err
		}
	}

	if len(c.LightweightTeam) > 0 {
		if err := checkFractions("lightweight team", roleFractions(c.LightweightTeam)); err != nil {
			return err
		}
	}
	return nil
}

func roleFractions(team []RoleFraction) []float64 {
	out := make([]float64, len(team))
	for i, rf := range team {
		out[i] = rf.Fraction
	}
	return out
}

func phaseFractions(phases []PhaseFraction) []float64 {
	out := make([]float64, len(phases))
	for i, pf := range phases {
		out[i] = pf.Fraction
	}
	return out
}

func checkFractions(label string, fractions []float64) error {
	if len(fractions) == 0 {
		return errors.Newf(errors.TypeConfig, "%s: no allocation fractions", label)
	}
	sum := 0.0
	for _, f := range fractions {
		if f <= 0 || f > 1 {
			return errors.Newf(errors.TypeConfig, "%s: fraction out of range: %v", label, f)
		}
		sum += f
	}
	if math.Abs(sum-1.0) > fractionTolerance {
		return errors.Newf(errors.TypeConfig, "%s: fractions sum to %v, want 1.0", label, sum)
	}
	return nil
}
