package models

var acquisitionSpec = ModelSpec{
	ID:          "acquisition",
	Name:        "Acquisition",
	Description: "The incumbent may acquire the entrant instead of copying. The acquisition price tracks the entrant's outside option, so acquisitions happen on an intermediate band of copying costs.",
}

// AcquisitionModel extends the bargaining power model with a third incumbent
// option. The acquisition price equals the entrant's outside option, which
// improves as copying gets more expensive: for F below the copy threshold
// copying dominates, on an intermediate band the merger synergy covers the
// premium, and for large F the target is too expensive.
type AcquisitionModel struct {
	BargainingPowerModel
}

// NewAcquisitionModel validates the parameters and solves the model.
func NewAcquisitionModel(p Params) (*AcquisitionModel, error) {
	if err := p.validateAcquisition(); err != nil {
		return nil, err
	}
	inner, err := NewBargainingPowerModel(p)
	if err != nil {
		return nil, err
	}

	m := &AcquisitionModel{BargainingPowerModel: *inner}

	// Acquisition bands end where the premium over the copy threshold
	// exhausts half the merger synergy (Nash split of the gains).
	m.copying[ThresholdFAcqS] = m.copying[ThresholdFYYs] + (p.U+p.Delta-p.K)/2
	m.copying[ThresholdFAcqC] = m.copying[ThresholdFYNc] + (p.SmallDelta-p.K)/2

	return m, nil
}

// Spec returns metadata about the acquisition model
func (m *AcquisitionModel) Spec() ModelSpec {
	return acquisitionSpec
}

// OptimalChoice derives the equilibrium path with acquisitions available.
//
// An unconstrained entrant develops the substitute and is acquired whenever
// copying is too expensive but the synergy still covers the premium. A
// constrained entrant faces acquisition at a fire-sale price, so it keeps
// ducking into the complement; the kill zone shrinks to the band above
// F(ACQ)c instead of vanishing.
func (m *AcquisitionModel) OptimalChoice(A, F float64) Choice {
	constrained := A < m.assets[ThresholdABarS]

	if !constrained {
		choice := Choice{
			Entrant:     ChoiceSubstitute,
			Development: DevelopmentSuccess,
			Ownership:   OwnershipApart,
		}
		switch {
		case F <= m.copying[ThresholdFYYs]:
			choice.Incumbent = ChoiceCopy
		case F <= m.copying[ThresholdFAcqS]:
			choice.Incumbent = ChoiceAcquire
			choice.Ownership = OwnershipMerged
		default:
			choice.Incumbent = ChoiceRefrain
		}
		return choice
	}

	switch {
	case F < m.copying[ThresholdFYNc]:
		return Choice{
			Entrant:     ChoiceIndifferent,
			Incumbent:   ChoiceCopy,
			Development: DevelopmentFailure,
			Ownership:   OwnershipApart,
		}
	case F <= m.copying[ThresholdFAcqC]:
		return Choice{
			Entrant:     ChoiceComplement,
			Incumbent:   ChoiceAcquire,
			Development: DevelopmentSuccess,
			Ownership:   OwnershipMerged,
		}
	case F <= m.copying[ThresholdFYNs]:
		return Choice{
			Entrant:     ChoiceComplement,
			Incumbent:   ChoiceRefrain,
			Development: DevelopmentSuccess,
			Ownership:   OwnershipApart,
		}
	default:
		return Choice{
			Entrant:     ChoiceSubstitute,
			Incumbent:   ChoiceRefrain,
			Development: DevelopmentSuccess,
			Ownership:   OwnershipApart,
		}
	}
}

// Summary returns a human-readable report of thresholds and payoffs
func (m *AcquisitionModel) Summary() string {
	return summarize(m)
}
