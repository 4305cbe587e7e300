package plot

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
)

func mustModel(t *testing.T, id string) models.Model {
	t.Helper()
	m, err := models.New(id, models.DefaultParams())
	if err != nil {
		t.Fatalf("models.New(%q) failed: %v", id, err)
	}
	return m
}

func TestWindow(t *testing.T) {
	m := mustModel(t, "base")
	aMax, fMax := Window(m)

	// A-c = 0.45, F(YN)s = 1.75, both scaled by 1.3 and rounded to one digit
	if !almost(aMax, 0.6) {
		t.Errorf("expected aMax 0.6, got %g", aMax)
	}
	if !almost(fMax, 2.3) {
		t.Errorf("expected fMax 2.3, got %g", fMax)
	}
}

func TestEquilibriumFigureCoversWindow(t *testing.T) {
	for _, spec := range models.List() {
		m := mustModel(t, spec.ID)
		fig := EquilibriumFigure(m)

		if len(fig.Regions) < 4 {
			t.Errorf("%s: expected at least 4 regions, got %d", spec.ID, len(fig.Regions))
		}

		// Total region area must equal the window area
		var area float64
		for _, region := range fig.Regions {
			area += rectArea(region)
		}
		if !almost(area, fig.AMax*fig.FMax) {
			t.Errorf("%s: regions cover %g, window is %g", spec.ID, area, fig.AMax*fig.FMax)
		}
	}
}

func TestEquilibriumFigureLabelsKillZone(t *testing.T) {
	fig := EquilibriumFigure(mustModel(t, "base"))
	want := "E_C | Ø | Y"
	for _, region := range fig.Regions {
		if region.Label == want {
			return
		}
	}
	t.Errorf("expected a region labelled %q, got %v", want, labels(fig))
}

func TestEquilibriumFigureAcquisitionBand(t *testing.T) {
	fig := EquilibriumFigure(mustModel(t, "acquisition"))
	found := false
	for _, region := range fig.Regions {
		if strings.Contains(region.Label, "| A |") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an acquisition region, got %v", labels(fig))
	}
}

func TestResponseFigureLabels(t *testing.T) {
	fig := ResponseFigure(mustModel(t, "base"))
	seen := map[string]bool{}
	for _, region := range fig.Regions {
		seen[region.Label] = true
	}
	for _, want := range []string{"copy either product", "refrain"} {
		if !seen[want] {
			t.Errorf("expected response region %q, got %v", want, labels(fig))
		}
	}
}

func TestGuidesInsideWindow(t *testing.T) {
	fig := EquilibriumFigure(mustModel(t, "bargaining"))
	for _, guide := range fig.Guides {
		max := fig.FMax
		if guide.Vertical {
			max = fig.AMax
		}
		if guide.Value <= 0 || guide.Value >= max {
			t.Errorf("guide %s at %g outside window", guide.Label, guide.Value)
		}
	}
}

func TestBuildUnknownKind(t *testing.T) {
	if _, err := Build(mustModel(t, "base"), FigureKind("contour")); err == nil {
		t.Error("expected error for unknown figure kind")
	}
}

func TestRenderSVG(t *testing.T) {
	fig := EquilibriumFigure(mustModel(t, "base"))
	var buf bytes.Buffer
	if err := RenderSVG(&buf, fig); err != nil {
		t.Fatalf("RenderSVG failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<svg", "polygon", "stroke-dasharray", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
}

func TestRenderTerminal(t *testing.T) {
	fig := EquilibriumFigure(mustModel(t, "base"))
	out := RenderTerminal(fig)
	if !strings.Contains(out, "equilibrium paths") {
		t.Error("terminal output missing title")
	}
	if !strings.Contains(out, "E_C | Ø | Y") {
		t.Error("terminal output missing kill zone legend entry")
	}
}

func TestTables(t *testing.T) {
	m := mustModel(t, "base")
	th := ThresholdTable(m)
	if !strings.Contains(th, "F(YY)s") || !strings.Contains(th, "0.25") {
		t.Errorf("threshold table missing expected entries:\n%s", th)
	}
	pay := PayoffTable(m)
	if !strings.Contains(pay, "I(C)E(P)") {
		t.Errorf("payoff table missing market configuration:\n%s", pay)
	}
}

func labels(fig Figure) []string {
	out := make([]string, len(fig.Regions))
	for i, r := range fig.Regions {
		out[i] = r.Label
	}
	return out
}

func rectArea(r Region) float64 {
	minA, maxA := r.Points[0].A, r.Points[0].A
	minF, maxF := r.Points[0].F, r.Points[0].F
	for _, p := range r.Points[1:] {
		minA = math.Min(minA, p.A)
		maxA = math.Max(maxA, p.A)
		minF = math.Min(minF, p.F)
		maxF = math.Max(maxF, p.F)
	}
	return (maxA - minA) * (maxF - minF)
}

func almost(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}
