// Package types - Rate card
package types

import (
	"sort"

	"github.com/shopspring/decimal"

	"sow-estimator/internal/errors"
)

// RateCard maps canonical role names to hourly rates. Updates are
// whole-document: replacing a card removes roles absent from the new one.
type RateCard map[string]decimal.Decimal

// Get returns the rate for a role, or the fallback when the role is not
// on the card. Missing roles are a configuration gap, never an error.
func (c RateCard) Get(role string, fallback decimal.Decimal) decimal.Decimal {
	if rate, ok := c[role]; ok {
		return rate
	}
	return fallback
}

// Average returns the mean rate across the card, zero for an empty card
func (c RateCard) Average() decimal.Decimal {
	if len(c) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, rate := range c {
		sum = sum.Add(rate)
	}
	return sum.Div(decimal.NewFromInt(int64(len(c))))
}

// Roles returns the role names in sorted order
func (c RateCard) Roles() []string {
	roles := make([]string, 0, len(c))
	for role := range c {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Clone returns an independent copy of the card
func (c RateCard) Clone() RateCard {
	out := make(RateCard, len(c))
	for role, rate := range c {
		out[role] = rate
	}
	return out
}

// Validate rejects roles outside the canonical set and non-positive rates
func (c RateCard) Validate(canonical map[string]bool) error {
	for role, rate := range c {
		if !canonical[role] {
			return errors.Inputf("role not in canonical set: %s", role)
		}
		if !rate.IsPositive() {
			return errors.Inputf("rate for %s must be positive, got %s", role, rate)
		}
	}
	return nil
}
