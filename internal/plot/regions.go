// Package plot turns a solved model into labelled regions of the (A, F)
// parameter plane and renders them as SVG figures or terminal diagrams.
package plot

import (
	"fmt"
	"math"
	"sort"

	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
)

// Point is a coordinate in the parameter plane: entrant assets on the
// horizontal axis, copying fixed costs on the vertical axis.
type Point struct {
	A float64 `json:"a"`
	F float64 `json:"f"`
}

// Region is one labelled polygon of a figure.
type Region struct {
	Label  string  `json:"label"`
	Points []Point `json:"points"`
}

// GuideLine is a dashed threshold line drawn across the whole figure.
type GuideLine struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Vertical bool    `json:"vertical"`
}

// Figure is a complete best-response or equilibrium diagram.
type Figure struct {
	Title   string           `json:"title"`
	Model   models.ModelSpec `json:"model"`
	AMax    float64          `json:"a_max"`
	FMax    float64          `json:"f_max"`
	Regions []Region         `json:"regions"`
	Guides  []GuideLine      `json:"guides"`
}

// FigureKind selects which diagram to build.
type FigureKind string

const (
	FigureEquilibrium FigureKind = "equilibrium"
	FigureResponses   FigureKind = "responses"
)

func (f FigureKind) String() string { return string(f) }

// Build constructs the requested figure for a solved model.
func Build(m models.Model, kind FigureKind) (Figure, error) {
	switch kind {
	case FigureEquilibrium:
		return EquilibriumFigure(m), nil
	case FigureResponses:
		return ResponseFigure(m), nil
	default:
		return Figure{}, fmt.Errorf("unknown figure kind '%s'", kind)
	}
}

// Window returns the plot window used by all figures of a model: the same
// 30% margin beyond the outermost thresholds the original figures use.
func Window(m models.Model) (aMax, fMax float64) {
	th := m.Thresholds()
	aMax = round1(th.Assets[models.ThresholdABarC] * 1.3)
	fMax = round1(th.CopyingCosts[models.ThresholdFYNs] * 1.3)
	return aMax, fMax
}

// EquilibriumFigure partitions the window into equilibrium-path regions.
// Cells of the threshold grid are labelled by sampling OptimalChoice at
// their center and merged along the F axis.
func EquilibriumFigure(m models.Model) Figure {
	aMax, fMax := Window(m)
	th := m.Thresholds()

	aCuts := axisCuts(aMax, th.Assets[models.ThresholdABarS])
	fCuts := axisCuts(fMax, valuesOf(th.CopyingCosts)...)

	regions := buildRegions(aCuts, fCuts, func(a, f float64) string {
		return pathLabel(m.OptimalChoice(a, f))
	})

	return Figure{
		Title:   fmt.Sprintf("%s: equilibrium paths", m.Spec().Name),
		Model:   m.Spec(),
		AMax:    aMax,
		FMax:    fMax,
		Regions: regions,
		Guides:  guides(m, aMax, fMax),
	}
}

// ResponseFigure partitions the window by the incumbent's best response to
// each of the entrant's two possible products.
func ResponseFigure(m models.Model) Figure {
	aMax, fMax := Window(m)
	th := m.Thresholds()

	aCuts := axisCuts(aMax,
		th.Assets[models.ThresholdABarS],
		th.Assets[models.ThresholdABarC])
	fCuts := axisCuts(fMax, valuesOf(th.CopyingCosts)...)

	regions := buildRegions(aCuts, fCuts, func(a, f float64) string {
		return responseLabel(th, a, f)
	})

	return Figure{
		Title:   fmt.Sprintf("%s: incumbent best responses", m.Spec().Name),
		Model:   m.Spec(),
		AMax:    aMax,
		FMax:    fMax,
		Regions: regions,
		Guides:  guides(m, aMax, fMax),
	}
}

// responseLabel classifies the incumbent's best response pair at one point.
// Against a substitute developer the relevant copy threshold is F(YN)s while
// copying can still deter funding, F(YY)s otherwise; against a complement
// developer F(YN)c and F(YY)c play the same roles.
func responseLabel(th models.Thresholds, a, f float64) string {
	copySub := false
	if a < th.Assets[models.ThresholdABarS] {
		copySub = f <= th.CopyingCosts[models.ThresholdFYNs]
	} else {
		copySub = f <= th.CopyingCosts[models.ThresholdFYYs]
	}

	copyComp := false
	if a < th.Assets[models.ThresholdABarC] {
		copyComp = f <= th.CopyingCosts[models.ThresholdFYNc]
	} else {
		copyComp = f <= th.CopyingCosts[models.ThresholdFYYc]
	}

	switch {
	case copySub && copyComp:
		return "copy either product"
	case copySub:
		return "copy the substitute"
	case copyComp:
		return "copy the complement"
	default:
		return "refrain"
	}
}

// pathLabel renders an equilibrium path as a compact region label.
func pathLabel(c models.Choice) string {
	label := fmt.Sprintf("%s | %s | %s", c.Entrant, c.Incumbent, c.Development)
	if c.Ownership == models.OwnershipMerged {
		label += " | M"
	}
	return label
}

// guides returns the dashed threshold lines inside the window.
func guides(m models.Model, aMax, fMax float64) []GuideLine {
	th := m.Thresholds()
	var lines []GuideLine
	for _, key := range []string{
		models.ThresholdFYNs, models.ThresholdFYYs, models.ThresholdFYYc,
		models.ThresholdFYNc, models.ThresholdFAcqS, models.ThresholdFAcqC,
	} {
		if v, ok := th.CopyingCosts[key]; ok && v > 0 && v < fMax {
			lines = append(lines, GuideLine{Label: key, Value: v})
		}
	}
	for _, key := range []string{models.ThresholdABarS, models.ThresholdABarC} {
		if v, ok := th.Assets[key]; ok && v > 0 && v < aMax {
			lines = append(lines, GuideLine{Label: key, Value: v, Vertical: true})
		}
	}
	return lines
}

// axisCuts returns the sorted cut positions of one axis: zero, the given
// thresholds that fall inside the window, and the window edge.
func axisCuts(max float64, thresholds ...float64) []float64 {
	cuts := []float64{0}
	for _, v := range thresholds {
		if v > 0 && v < max {
			cuts = append(cuts, v)
		}
	}
	cuts = append(cuts, max)
	sort.Float64s(cuts)

	// Drop duplicates (thresholds coincide for beta = 1/2)
	out := cuts[:1]
	for _, v := range cuts[1:] {
		if v-out[len(out)-1] > 1e-9 {
			out = append(out, v)
		}
	}
	return out
}

// buildRegions labels every cell of the cut grid by its center point and
// merges runs of equal labels along the F axis within each A column.
func buildRegions(aCuts, fCuts []float64, classify func(a, f float64) string) []Region {
	var regions []Region
	for i := 0; i+1 < len(aCuts); i++ {
		a0, a1 := aCuts[i], aCuts[i+1]
		aMid := (a0 + a1) / 2

		j := 0
		for j+1 < len(fCuts) {
			f0 := fCuts[j]
			label := classify(aMid, (fCuts[j]+fCuts[j+1])/2)

			// Extend the band while the label repeats
			k := j + 1
			for k+1 < len(fCuts) && classify(aMid, (fCuts[k]+fCuts[k+1])/2) == label {
				k++
			}
			f1 := fCuts[k]

			regions = append(regions, Region{
				Label: label,
				Points: []Point{
					{A: a0, F: f0}, {A: a1, F: f0},
					{A: a1, F: f1}, {A: a0, F: f1},
				},
			})
			j = k
		}
	}
	return regions
}

func valuesOf(m map[string]float64) []float64 {
	out := make([]float64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
