package models

import (
	"fmt"

	"go.uber.org/multierr"
)

// Params holds the economic primitives shared by all model variants.
// Beta is only read by the bargaining-power family (the base model pins it
// to 1/2) and Gamma only by the two-sided market model.
type Params struct {
	// U is the consumer utility of the incumbent's primary product
	U float64 `json:"u" yaml:"u"`
	// B is the funding requirement of the entrant
	B float64 `json:"b" yaml:"b"`
	// SmallDelta is the utility added by one complementary product
	SmallDelta float64 `json:"small_delta" yaml:"small_delta"`
	// Delta is the quality advantage of the entrant's substitute
	Delta float64 `json:"delta" yaml:"delta"`
	// K is the development cost of the entrant's second product
	K float64 `json:"k" yaml:"k"`
	// Beta is the entrant's bargaining share of complement profits
	Beta float64 `json:"beta" yaml:"beta"`
	// Gamma is the cross-side network externality of the platform
	Gamma float64 `json:"gamma" yaml:"gamma"`
}

// DefaultParams returns the parameter values used throughout the paper's
// figures.
func DefaultParams() Params {
	return Params{
		U:          1,
		B:          0.5,
		SmallDelta: 0.5,
		Delta:      0.51,
		K:          0.2,
		Beta:       0.5,
		Gamma:      0.3,
	}
}

// Validate checks the assumptions shared by all variants. Violations are
// aggregated so a caller sees every problem at once.
func (p Params) Validate() error {
	var errs error

	// All primitives must be strictly positive
	if p.U <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("u must be positive, got %g", p.U))
	}
	if p.B <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("b must be positive, got %g", p.B))
	}
	if p.SmallDelta <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("small_delta must be positive, got %g", p.SmallDelta))
	}
	if p.Delta <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("delta must be positive, got %g", p.Delta))
	}
	if p.K <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("k must be positive, got %g", p.K))
	}
	if errs != nil {
		return errs
	}

	// (A1b) the substitute improvement is moderate relative to a complement
	if !(p.SmallDelta/2 < p.Delta && p.Delta < 3*p.SmallDelta/2) {
		errs = multierr.Append(errs, fmt.Errorf(
			"(A1b) violated: small_delta/2 < delta < 3*small_delta/2 required, got delta=%g small_delta=%g",
			p.Delta, p.SmallDelta))
	}

	// (A2) development cost is small enough that funding can matter
	if !(p.K < p.SmallDelta/2) {
		errs = multierr.Append(errs, fmt.Errorf(
			"(A2) violated: k < small_delta/2 required, got k=%g small_delta=%g",
			p.K, p.SmallDelta))
	}

	return errs
}

// validateBeta checks (A3) for the bargaining-power family.
func (p Params) validateBeta() error {
	if !(0 < p.Beta && p.Beta < 1) {
		return fmt.Errorf("(A3) violated: beta must be in (0, 1), got %g", p.Beta)
	}
	return nil
}

// validateAcquisition checks (A4) for the acquisition model.
func (p Params) validateAcquisition() error {
	if !(p.SmallDelta < p.Delta) {
		return fmt.Errorf("(A4) violated: small_delta < delta required, got small_delta=%g delta=%g",
			p.SmallDelta, p.Delta)
	}
	return nil
}

// validateGamma checks (A5) for the two-sided market model.
func (p Params) validateGamma() error {
	if p.Gamma < 0 || p.Gamma > 1 {
		return fmt.Errorf("(A5) violated: gamma must be in [0, 1], got %g", p.Gamma)
	}
	return nil
}
