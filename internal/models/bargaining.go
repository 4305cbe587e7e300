package models

import (
	"fmt"
	"sort"
	"strings"
)

var bargainingSpec = ModelSpec{
	ID:          "bargaining",
	Name:        "Bargaining power",
	Description: "Sequential entry game with a general bargaining share beta of complement profits accruing to the entrant.",
}

// BargainingPowerModel generalizes the base model: the entrant captures a
// share beta of the profits generated by a complement, the incumbent the
// rest. The base model is the beta = 1/2 specialization.
type BargainingPowerModel struct {
	params  Params
	copying map[string]float64
	assets  map[string]float64
	payoffs map[MarketConfig]Payoff
}

// NewBargainingPowerModel validates the parameters and solves the model.
func NewBargainingPowerModel(p Params) (*BargainingPowerModel, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := p.validateBeta(); err != nil {
		return nil, err
	}

	m := &BargainingPowerModel{params: p}
	m.solve(p.SmallDelta)
	return m, nil
}

// solve computes thresholds and payoffs. effDelta is the effective value of
// one complement; the two-sided model passes small_delta scaled by its
// network externality, everything else passes small_delta unchanged.
func (m *BargainingPowerModel) solve(effDelta float64) {
	u := m.params.U
	b := m.params.B
	dl := m.params.Delta
	k := m.params.K
	beta := m.params.Beta

	// Incumbent copying cost thresholds. Copying pays when its gain in the
	// relevant continuation exceeds F.
	m.copying = map[string]float64{
		ThresholdFYYs: beta * effDelta,
		ThresholdFYNs: u + (2-beta)*effDelta,
		ThresholdFYYc: 2 * (1 - beta) * effDelta,
		ThresholdFYNc: (1 - beta) * effDelta,
	}

	// Entrant asset thresholds. Development requires A at or above the
	// threshold of the relevant continuation; copying tightens funding.
	m.assets = map[string]float64{
		ThresholdAs:    b + k - dl - (1+beta)*effDelta,
		ThresholdAc:    b + k - (1+beta)*effDelta,
		ThresholdABarS: b + k - dl,
		ThresholdABarC: b + k - beta*effDelta,
	}

	// Surplus split per market configuration. W = PiI + PiE + CS throughout.
	m.payoffs = map[MarketConfig]Payoff{
		ConfigBase: {
			PiI: u + (1-beta)*effDelta,
			PiE: beta * effDelta,
			CS:  0,
			W:   u + effDelta,
		},
		ConfigCopy: {
			PiI: u + effDelta,
			PiE: 0,
			CS:  0,
			W:   u + effDelta,
		},
		ConfigSub: {
			PiI: 0,
			PiE: dl + effDelta,
			CS:  u,
			W:   u + dl + effDelta,
		},
		ConfigCopySub: {
			PiI: (1 - beta) * effDelta,
			PiE: dl + beta*effDelta,
			CS:  u,
			W:   u + dl + effDelta,
		},
		ConfigComp: {
			PiI: u + 2*(1-beta)*effDelta,
			PiE: 2 * beta * effDelta,
			CS:  0,
			W:   u + 2*effDelta,
		},
		ConfigCopyComp: {
			PiI: u + (2-beta)*effDelta,
			PiE: beta * effDelta,
			CS:  0,
			W:   u + 2*effDelta,
		},
	}
}

// Spec returns metadata about the bargaining power model
func (m *BargainingPowerModel) Spec() ModelSpec {
	return bargainingSpec
}

// Params returns the economic parameters the model was built with
func (m *BargainingPowerModel) Params() Params {
	return m.params
}

// Thresholds returns the copying cost and asset thresholds
func (m *BargainingPowerModel) Thresholds() Thresholds {
	return Thresholds{
		CopyingCosts: copyMap(m.copying),
		Assets:       copyMap(m.assets),
	}
}

// Payoffs returns the surplus split per market configuration
func (m *BargainingPowerModel) Payoffs() map[MarketConfig]Payoff {
	out := make(map[MarketConfig]Payoff, len(m.payoffs))
	for k, v := range m.payoffs {
		out[k] = v
	}
	return out
}

// OptimalChoice derives the equilibrium path by backward induction.
//
// A constrained entrant (A below A-s) lives in three bands of F: for small F
// copying deters any development, for intermediate F only the complement
// survives the copying threat (the kill zone), and for F above F(YN)s the
// copying threat is empty. An unconstrained entrant develops the substitute
// and the incumbent copies exactly when F is at most F(YY)s.
func (m *BargainingPowerModel) OptimalChoice(A, F float64) Choice {
	constrained := A < m.assets[ThresholdABarS]

	switch {
	case constrained && m.copying[ThresholdFYNc] <= F && F <= m.copying[ThresholdFYNs]:
		// Kill zone: the entrant ducks into the complement to avoid being copied
		return Choice{
			Entrant:     ChoiceComplement,
			Incumbent:   ChoiceRefrain,
			Development: DevelopmentSuccess,
			Ownership:   OwnershipApart,
		}
	case constrained && F < m.copying[ThresholdFYNc]:
		// Copying is cheap enough to deter either product
		return Choice{
			Entrant:     ChoiceIndifferent,
			Incumbent:   ChoiceCopy,
			Development: DevelopmentFailure,
			Ownership:   OwnershipApart,
		}
	default:
		choice := Choice{
			Entrant:     ChoiceSubstitute,
			Development: DevelopmentSuccess,
			Ownership:   OwnershipApart,
		}
		if F <= m.copying[ThresholdFYYs] {
			choice.Incumbent = ChoiceCopy
		} else {
			choice.Incumbent = ChoiceRefrain
		}
		return choice
	}
}

// Summary returns a human-readable report of thresholds and payoffs
func (m *BargainingPowerModel) Summary() string {
	return summarize(m)
}

// summarize renders the shared textual report for any model.
func summarize(m Model) string {
	var sb strings.Builder
	t := m.Thresholds()

	fmt.Fprintf(&sb, "%s\n", m.Spec().Name)
	sb.WriteString("Assets:\n")
	for _, key := range sortedKeys(t.Assets) {
		fmt.Fprintf(&sb, "\t- %s:\t%.4g\n", key, t.Assets[key])
	}
	sb.WriteString("Copying fixed costs:\n")
	for _, key := range sortedKeys(t.CopyingCosts) {
		fmt.Fprintf(&sb, "\t- %s:\t%.4g\n", key, t.CopyingCosts[key])
	}
	sb.WriteString("Payoffs:\n")
	payoffs := m.Payoffs()
	for _, config := range MarketConfigs {
		p := payoffs[config]
		fmt.Fprintf(&sb, "\t- %s:\tpi(I)=%.4g pi(E)=%.4g CS=%.4g W=%.4g\n",
			config, p.PiI, p.PiE, p.CS, p.W)
	}
	return sb.String()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
