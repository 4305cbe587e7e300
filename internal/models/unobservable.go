package models

var unobservableSpec = ModelSpec{
	ID:          "unobservable",
	Name:        "Unobservable choice",
	Description: "The incumbent cannot observe the entrant's product choice before deciding to copy, so the entrant cannot commit to the complement and the kill zone collapses.",
}

// UnobservableModel changes the information structure of the bargaining
// power model: the incumbent decides whether to copy without observing what
// the entrant develops. Thresholds and payoffs are unchanged.
type UnobservableModel struct {
	BargainingPowerModel
}

// NewUnobservableModel validates the parameters and solves the model.
func NewUnobservableModel(p Params) (*UnobservableModel, error) {
	inner, err := NewBargainingPowerModel(p)
	if err != nil {
		return nil, err
	}
	return &UnobservableModel{BargainingPowerModel: *inner}, nil
}

// Spec returns metadata about the unobservable model
func (m *UnobservableModel) Spec() ModelSpec {
	return unobservableSpec
}

// OptimalChoice derives the equilibrium path. Without observability the
// complement is not a credible commitment: in the region where the observable
// game has the entrant ducking into the complement, the incumbent copies
// regardless and the entrant develops the substitute, which fails funding.
func (m *UnobservableModel) OptimalChoice(A, F float64) Choice {
	choice := m.BargainingPowerModel.OptimalChoice(A, F)
	if choice.Entrant == ChoiceComplement {
		choice.Entrant = ChoiceSubstitute
		choice.Incumbent = ChoiceCopy
		choice.Development = DevelopmentFailure
	}
	return choice
}

// Summary returns a human-readable report of thresholds and payoffs
func (m *UnobservableModel) Summary() string {
	return summarize(m)
}
