package api

import (
	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
	"github.com/manuelbieri/shelegia-motta-2021/internal/store"
	"github.com/manuelbieri/shelegia-motta-2021/internal/sweep"
)

// EngineVersion reported in every API response
const EngineVersion = sweep.EngineVersion

// ChoiceRequest asks for the equilibrium path at one (A, F) point.
// A nil Params means "use the paper defaults".
type ChoiceRequest struct {
	Model  string         `json:"model"`
	Params *models.Params `json:"params,omitempty"`
	A      float64        `json:"a"`
	F      float64        `json:"f"`
}

// ChoiceResponse is the evaluated equilibrium path.
type ChoiceResponse struct {
	Choice        models.Choice `json:"choice"`
	KillZone      bool          `json:"kill_zone"`
	EngineVersion string        `json:"engine_version"`
	Echo          ChoiceRequest `json:"echo"`
}

// SweepRequest asks for a grid sweep. Zero AMax/FMax default to the model's
// plot window, a nil Params to the paper defaults.
type SweepRequest struct {
	Model     string         `json:"model"`
	Params    *models.Params `json:"params,omitempty"`
	AMax      float64        `json:"a_max,omitempty"`
	FMax      float64        `json:"f_max,omitempty"`
	Steps     int            `json:"steps"`
	TimeoutMs int            `json:"timeout_ms,omitempty"`
}

// SweepResponse summarizes a persisted sweep run.
type SweepResponse struct {
	RunID         string        `json:"run_id"`
	Summary       sweep.Summary `json:"summary"`
	EngineVersion string        `json:"engine_version"`
	Echo          sweep.Request `json:"echo"`
}

// ModelsResponse lists the registered model variants.
type ModelsResponse struct {
	Models        []models.ModelSpec `json:"models"`
	EngineVersion string             `json:"engine_version"`
}

// ThresholdsResponse carries the closed-form boundaries of one model.
type ThresholdsResponse struct {
	Model         string            `json:"model"`
	Params        models.Params     `json:"params"`
	Thresholds    models.Thresholds `json:"thresholds"`
	EngineVersion string            `json:"engine_version"`
}

// PayoffsResponse carries the surplus split per market configuration.
type PayoffsResponse struct {
	Model         string                                `json:"model"`
	Params        models.Params                         `json:"params"`
	Payoffs       map[models.MarketConfig]models.Payoff `json:"payoffs"`
	EngineVersion string                                `json:"engine_version"`
}

// RunResponse returns one persisted run.
type RunResponse struct {
	Run           store.Run `json:"run"`
	EngineVersion string    `json:"engine_version"`
}

// RunsResponse returns a page of persisted runs.
type RunsResponse struct {
	Runs          []store.Run `json:"runs"`
	Limit         int         `json:"limit"`
	Offset        int         `json:"offset"`
	EngineVersion string      `json:"engine_version"`
}

// CellsResponse returns a page of grid cells of one run.
type CellsResponse struct {
	RunID         string       `json:"run_id"`
	Cells         []store.Cell `json:"cells"`
	Limit         int          `json:"limit"`
	Offset        int          `json:"offset"`
	EngineVersion string       `json:"engine_version"`
}
