// Package sweep evaluates a model's equilibrium path over a grid of the
// (A, F) parameter plane using a worker pool.
package sweep

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
)

// EngineVersion is echoed in sweep results and persisted runs.
const EngineVersion = "killzone-1.0.0"

// Request describes a sweep over [0, AMax] x [0, FMax] with Steps+1 samples
// per axis. A zero AMax or FMax means "use the model's plot window edge".
type Request struct {
	Model     string        `json:"model"`
	Params    models.Params `json:"params"`
	AMax      float64       `json:"a_max,omitempty"`
	FMax      float64       `json:"f_max,omitempty"`
	Steps     int           `json:"steps"`
	TimeoutMs int           `json:"timeout_ms,omitempty"`
}

// Cell is the equilibrium path at one grid point.
type Cell struct {
	A      float64       `json:"a"`
	F      float64       `json:"f"`
	Choice models.Choice `json:"choice"`
}

// Summary aggregates a sweep.
type Summary struct {
	TotalEvaluated uint64         `json:"total_evaluated"`
	Counts         map[string]int `json:"counts"`
	KillZoneShare  float64        `json:"kill_zone_share"`
	TimedOut       bool           `json:"timed_out,omitempty"`
}

// Result contains the complete sweep output.
type Result struct {
	Cells         []Cell  `json:"cells"`
	Summary       Summary `json:"summary"`
	EngineVersion string  `json:"engine_version"`
	Echo          Request `json:"echo"`
}

// Sweeper runs grid sweeps with one worker per CPU.
type Sweeper struct {
	workerCount int
}

// NewSweeper creates a sweeper sized to the machine.
func NewSweeper() *Sweeper {
	return &Sweeper{workerCount: runtime.GOMAXPROCS(0)}
}

// maxSteps bounds the grid so a single request cannot allocate unbounded
// memory (maxSteps+1 squared cells).
const maxSteps = 2000

// Sweep evaluates the grid. Rows are distributed across workers. A timeout
// mid-sweep returns the partial result with Summary.TimedOut set; a timeout
// before any row completed returns ErrTimeout.
func (s *Sweeper) Sweep(ctx context.Context, req Request) (*Result, error) {
	if !models.Exists(req.Model) {
		return nil, ErrModelNotFound
	}
	if req.Steps < 1 || req.Steps > maxSteps {
		return nil, ErrInvalidGrid
	}

	model, err := models.New(req.Model, req.Params)
	if err != nil {
		return nil, err
	}

	// Default the window to the model's plot frame
	if req.AMax <= 0 {
		th := model.Thresholds()
		req.AMax = th.Assets[models.ThresholdABarC] * 1.3
	}
	if req.FMax <= 0 {
		th := model.Thresholds()
		req.FMax = th.CopyingCosts[models.ThresholdFYNs] * 1.3
	}
	if req.AMax <= 0 || req.FMax <= 0 {
		return nil, ErrInvalidGrid
	}

	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	rows := req.Steps + 1
	cols := req.Steps + 1
	cells := make([]Cell, rows*cols)

	var evaluated atomic.Uint64
	var timedOut atomic.Bool

	// Row-partitioned workers writing into disjoint slices of cells
	g, gctx := errgroup.WithContext(ctx)
	chunk := (rows + s.workerCount - 1) / s.workerCount
	for start := 0; start < rows; start += chunk {
		end := start + chunk
		if end > rows {
			end = rows
		}
		g.Go(func() error {
			for row := start; row < end; row++ {
				select {
				case <-gctx.Done():
					timedOut.Store(true)
					return nil
				default:
				}
				a := req.AMax * float64(row) / float64(req.Steps)
				for col := 0; col < cols; col++ {
					f := req.FMax * float64(col) / float64(req.Steps)
					cells[row*cols+col] = Cell{A: a, F: f, Choice: model.OptimalChoice(a, f)}
					evaluated.Add(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if timedOut.Load() && evaluated.Load() == 0 {
		return nil, ErrTimeout
	}

	result := &Result{
		Cells:         cells,
		Summary:       summarize(cells, evaluated.Load(), timedOut.Load()),
		EngineVersion: EngineVersion,
		Echo:          req,
	}
	if timedOut.Load() {
		// Drop rows that were never evaluated
		result.Cells = compact(cells)
	}
	return result, nil
}

// summarize counts equilibrium paths and the kill-zone share.
func summarize(cells []Cell, evaluated uint64, timedOut bool) Summary {
	counts := make(map[string]int)
	killZone := 0
	total := 0
	for _, cell := range cells {
		if cell.Choice.Entrant == "" {
			continue // unevaluated after timeout
		}
		total++
		counts[cell.Choice.PathKey()]++
		if cell.Choice.KillZone() {
			killZone++
		}
	}

	summary := Summary{
		TotalEvaluated: evaluated,
		Counts:         counts,
		TimedOut:       timedOut,
	}
	if total > 0 {
		summary.KillZoneShare = float64(killZone) / float64(total)
	}
	return summary
}

// compact drops unevaluated cells from a partial sweep.
func compact(cells []Cell) []Cell {
	out := cells[:0]
	for _, cell := range cells {
		if cell.Choice.Entrant != "" {
			out = append(out, cell)
		}
	}
	return out
}
