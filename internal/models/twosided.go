package models

var twoSidedSpec = ModelSpec{
	ID:          "twosided",
	Name:        "Two-sided market",
	Description: "The platform carries a cross-side network externality gamma: every complement attached to a platform is worth small_delta*(1+gamma), which widens the kill zone.",
}

// TwoSidedMarketModel is the bargaining power model with the value of a
// platform-attached complement amplified by the network externality gamma.
// Assumptions A1b and A2 are stated on the raw small_delta.
type TwoSidedMarketModel struct {
	BargainingPowerModel
}

// NewTwoSidedMarketModel validates the parameters and solves the model.
func NewTwoSidedMarketModel(p Params) (*TwoSidedMarketModel, error) {
	if err := p.validateGamma(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := p.validateBeta(); err != nil {
		return nil, err
	}

	m := &TwoSidedMarketModel{BargainingPowerModel: BargainingPowerModel{params: p}}
	m.solve(p.SmallDelta * (1 + p.Gamma))
	return m, nil
}

// Spec returns metadata about the two-sided market model
func (m *TwoSidedMarketModel) Spec() ModelSpec {
	return twoSidedSpec
}

// Summary returns a human-readable report of thresholds and payoffs
func (m *TwoSidedMarketModel) Summary() string {
	return summarize(m)
}
