package sweep

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
)

func TestSweepUnknownModel(t *testing.T) {
	s := NewSweeper()
	_, err := s.Sweep(context.Background(), Request{Model: "cournot", Params: models.DefaultParams(), Steps: 10})
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestSweepInvalidGrid(t *testing.T) {
	s := NewSweeper()
	for _, steps := range []int{0, -5, maxSteps + 1} {
		_, err := s.Sweep(context.Background(), Request{Model: "base", Params: models.DefaultParams(), Steps: steps})
		if !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("steps=%d: expected ErrInvalidGrid, got %v", steps, err)
		}
	}
}

func TestSweepInvalidParams(t *testing.T) {
	s := NewSweeper()
	p := models.DefaultParams()
	p.K = 0.4
	if _, err := s.Sweep(context.Background(), Request{Model: "base", Params: p, Steps: 10}); err == nil {
		t.Error("expected parameter validation error")
	}
}

func TestSweepBaseGrid(t *testing.T) {
	s := NewSweeper()
	req := Request{Model: "base", Params: models.DefaultParams(), Steps: 40}
	result, err := s.Sweep(context.Background(), req)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	want := (req.Steps + 1) * (req.Steps + 1)
	if len(result.Cells) != want {
		t.Errorf("expected %d cells, got %d", want, len(result.Cells))
	}
	if result.Summary.TotalEvaluated != uint64(want) {
		t.Errorf("expected %d evaluated, got %d", want, result.Summary.TotalEvaluated)
	}
	if result.Summary.TimedOut {
		t.Error("unexpected timeout")
	}
	if result.EngineVersion != EngineVersion {
		t.Errorf("expected engine version %q, got %q", EngineVersion, result.EngineVersion)
	}

	// All four base-model areas appear on the default window
	for _, key := range []string{"E_C/E_P|©|N", "E_C|Ø|Y", "E_P|©|Y", "E_P|Ø|Y"} {
		if result.Summary.Counts[key] == 0 {
			t.Errorf("expected cells for path %q, counts: %v", key, result.Summary.Counts)
		}
	}

	if result.Summary.KillZoneShare <= 0 || result.Summary.KillZoneShare >= 1 {
		t.Errorf("kill zone share out of range: %g", result.Summary.KillZoneShare)
	}
}

// Every cell must agree with a direct evaluation at the same point.
func TestSweepMatchesPointwise(t *testing.T) {
	s := NewSweeper()
	req := Request{Model: "acquisition", Params: models.DefaultParams(), Steps: 12}
	result, err := s.Sweep(context.Background(), req)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	m, err := models.New("acquisition", models.DefaultParams())
	if err != nil {
		t.Fatalf("models.New failed: %v", err)
	}
	for _, cell := range result.Cells {
		if got := m.OptimalChoice(cell.A, cell.F); got != cell.Choice {
			t.Fatalf("cell (%g, %g): sweep says %+v, model says %+v", cell.A, cell.F, cell.Choice, got)
		}
	}
}

func TestSweepDefaultWindow(t *testing.T) {
	s := NewSweeper()
	result, err := s.Sweep(context.Background(), Request{Model: "base", Params: models.DefaultParams(), Steps: 10})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	// A-c*1.3 and F(YN)s*1.3 for the default parameters
	if !almostEqual(result.Echo.AMax, 0.45*1.3) {
		t.Errorf("expected default AMax %g, got %g", 0.45*1.3, result.Echo.AMax)
	}
	if !almostEqual(result.Echo.FMax, 1.75*1.3) {
		t.Errorf("expected default FMax %g, got %g", 1.75*1.3, result.Echo.FMax)
	}
}

// A context cancelled before the sweep starts stops every worker ahead of
// its first row, so no cell is evaluated and the sweep reports ErrTimeout.
func TestSweepCancelledContext(t *testing.T) {
	s := NewSweeper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Sweep(ctx, Request{Model: "base", Params: models.DefaultParams(), Steps: 200})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}
