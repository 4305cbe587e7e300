package models

var baseSpec = ModelSpec{
	ID:          "base",
	Name:        "Base model",
	Description: "Two-player sequential entry game: the entrant develops a substitute or a second complement, the incumbent copies or refrains. Complement profits split evenly.",
}

// BaseModel is the paper's starting point: the bargaining power model with
// complement profits shared equally (beta = 1/2).
type BaseModel struct {
	BargainingPowerModel
}

// NewBaseModel validates the parameters and solves the model. Beta is pinned
// to 1/2 regardless of the value passed in.
func NewBaseModel(p Params) (*BaseModel, error) {
	p.Beta = 0.5
	inner, err := NewBargainingPowerModel(p)
	if err != nil {
		return nil, err
	}
	return &BaseModel{BargainingPowerModel: *inner}, nil
}

// Spec returns metadata about the base model
func (m *BaseModel) Spec() ModelSpec {
	return baseSpec
}

// Summary returns a human-readable report of thresholds and payoffs
func (m *BaseModel) Summary() string {
	return summarize(m)
}
