package store

import (
	"context"
	"time"
)

// DB persists sweep runs and their grid cells.
type DB interface {
	Close() error
	Migrate() error
	SaveRun(ctx context.Context, run *Run) error
	SaveCells(ctx context.Context, runID string, cells []Cell) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]Run, error)
	GetCells(ctx context.Context, runID string, limit, offset int) ([]Cell, error)
}

// Run is one persisted sweep.
type Run struct {
	ID             string    `json:"id" db:"id"`
	Model          string    `json:"model" db:"model"`
	ParamsJSON     string    `json:"params_json" db:"params_json"`
	AMax           float64   `json:"a_max" db:"a_max"`
	FMax           float64   `json:"f_max" db:"f_max"`
	Steps          int       `json:"steps" db:"steps"`
	TotalEvaluated uint64    `json:"total_evaluated" db:"total_evaluated"`
	KillZoneShare  float64   `json:"kill_zone_share" db:"kill_zone_share"`
	EngineVersion  string    `json:"engine_version" db:"engine_version"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Cell is one persisted grid point of a run.
type Cell struct {
	ID          int64   `json:"id" db:"id"`
	RunID       string  `json:"run_id" db:"run_id"`
	A           float64 `json:"a" db:"a"`
	F           float64 `json:"f" db:"f"`
	Entrant     string  `json:"entrant" db:"entrant"`
	Incumbent   string  `json:"incumbent" db:"incumbent"`
	Development string  `json:"development" db:"development"`
	Ownership   string  `json:"ownership" db:"ownership"`
}
