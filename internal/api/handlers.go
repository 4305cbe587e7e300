package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
	"github.com/manuelbieri/shelegia-motta-2021/internal/plot"
	"github.com/manuelbieri/shelegia-motta-2021/internal/store"
	"github.com/manuelbieri/shelegia-motta-2021/internal/sweep"
)

// handleListModels returns the registered model variants
func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, ModelsResponse{
		Models:        models.List(),
		EngineVersion: EngineVersion,
	})
}

// modelFromRequest builds the model named in the URL with parameters taken
// from the query string.
func (s *Server) modelFromRequest(w http.ResponseWriter, r *http.Request) (models.Model, bool) {
	id := chi.URLParam(r, "id")
	if !models.Exists(id) {
		s.writeError(w, http.StatusNotFound, ErrTypeModelNotFound,
			"model '"+id+"' not found", map[string]interface{}{
				"available_models": models.List(),
			})
		return nil, false
	}

	params, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return nil, false
	}

	model, err := models.New(id, params)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeInvalidParams, err.Error(), map[string]interface{}{
			"model": id,
		})
		return nil, false
	}

	return model, true
}

// handleThresholds returns the closed-form boundaries of a model
func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	model, ok := s.modelFromRequest(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, ThresholdsResponse{
		Model:         model.Spec().ID,
		Params:        model.Params(),
		Thresholds:    model.Thresholds(),
		EngineVersion: EngineVersion,
	})
}

// handlePayoffs returns the surplus split per market configuration
func (s *Server) handlePayoffs(w http.ResponseWriter, r *http.Request) {
	model, ok := s.modelFromRequest(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, PayoffsResponse{
		Model:         model.Spec().ID,
		Params:        model.Params(),
		Payoffs:       model.Payoffs(),
		EngineVersion: EngineVersion,
	})
}

// handlePlotSVG renders a model figure as SVG. The figure query parameter
// selects between the equilibrium and best-response diagrams.
func (s *Server) handlePlotSVG(w http.ResponseWriter, r *http.Request) {
	model, ok := s.modelFromRequest(w, r)
	if !ok {
		return
	}

	kind := plot.FigureEquilibrium
	if raw := r.URL.Query().Get("figure"); raw != "" {
		kind = plot.FigureKind(raw)
	}

	fig, err := plot.Build(model, kind)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), map[string]interface{}{
			"valid_figures": []string{plot.FigureEquilibrium.String(), plot.FigureResponses.String()},
		})
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if err := plot.RenderSVG(w, fig); err != nil {
		s.logger.Error("svg_render_failed", zap.String("model", model.Spec().ID), zap.Error(err))
	}
}

// handleChoice evaluates the equilibrium path at a single (A, F) point
func (s *Server) handleChoice(w http.ResponseWriter, r *http.Request) {
	var req ChoiceRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := ValidateChoiceRequest(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	model, err := models.New(req.Model, paramsOrDefault(req.Params))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeInvalidParams, err.Error(), map[string]interface{}{
			"model": req.Model,
		})
		return
	}

	choice := model.OptimalChoice(req.A, req.F)

	s.logger.Info("choice_evaluated",
		zap.String("model", req.Model),
		zap.Float64("a", req.A),
		zap.Float64("f", req.F),
		zap.String("path", choice.PathKey()),
	)

	s.writeJSON(w, http.StatusOK, ChoiceResponse{
		Choice:        choice,
		KillZone:      choice.KillZone(),
		EngineVersion: EngineVersion,
		Echo:          req,
	})
}

// handleSweep runs a grid sweep and persists the run with its cells
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := ValidateSweepRequest(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	params := paramsOrDefault(req.Params)
	sweepReq := sweep.Request{
		Model:     req.Model,
		Params:    params,
		AMax:      req.AMax,
		FMax:      req.FMax,
		Steps:     req.Steps,
		TimeoutMs: req.TimeoutMs,
	}

	result, err := s.sweeper.Sweep(r.Context(), sweepReq)
	if err != nil {
		errType := ErrTypeInternal
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, sweep.ErrModelNotFound):
			errType = ErrTypeModelNotFound
			status = http.StatusBadRequest
		case errors.Is(err, sweep.ErrInvalidGrid):
			errType = ErrTypeValidation
			status = http.StatusBadRequest
		case errors.Is(err, sweep.ErrTimeout):
			errType = ErrTypeTimeout
			status = http.StatusRequestTimeout
		default:
			// Remaining failures are parameter validation errors from model construction
			errType = ErrTypeInvalidParams
			status = http.StatusBadRequest
		}

		s.writeError(w, status, errType, err.Error(), map[string]interface{}{
			"model": req.Model,
		})
		return
	}

	runID, err := s.persistRun(r, result)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal,
			"failed to persist sweep run", map[string]interface{}{
				"error": err.Error(),
			})
		return
	}

	s.logger.Info("sweep_completed",
		zap.String("model", req.Model),
		zap.String("run_id", runID),
		zap.Uint64("total_evaluated", result.Summary.TotalEvaluated),
		zap.Float64("kill_zone_share", result.Summary.KillZoneShare),
		zap.Bool("timed_out", result.Summary.TimedOut),
	)

	s.writeJSON(w, http.StatusOK, SweepResponse{
		RunID:         runID,
		Summary:       result.Summary,
		EngineVersion: EngineVersion,
		Echo:          result.Echo,
	})
}

// persistRun stores a sweep result. With no database configured the sweep is
// still served, just not recorded.
func (s *Server) persistRun(r *http.Request, result *sweep.Result) (string, error) {
	if s.db == nil {
		return "", nil
	}

	paramsJSON, err := json.Marshal(result.Echo.Params)
	if err != nil {
		return "", err
	}

	run := &store.Run{
		Model:          result.Echo.Model,
		ParamsJSON:     string(paramsJSON),
		AMax:           result.Echo.AMax,
		FMax:           result.Echo.FMax,
		Steps:          result.Echo.Steps,
		TotalEvaluated: result.Summary.TotalEvaluated,
		KillZoneShare:  result.Summary.KillZoneShare,
		EngineVersion:  result.EngineVersion,
	}
	if err := s.db.SaveRun(r.Context(), run); err != nil {
		return "", err
	}

	cells := make([]store.Cell, len(result.Cells))
	for i, cell := range result.Cells {
		cells[i] = store.Cell{
			RunID:       run.ID,
			A:           cell.A,
			F:           cell.F,
			Entrant:     string(cell.Choice.Entrant),
			Incumbent:   string(cell.Choice.Incumbent),
			Development: string(cell.Choice.Development),
			Ownership:   string(cell.Choice.Ownership),
		}
	}
	if err := s.db.SaveCells(r.Context(), run.ID, cells); err != nil {
		return "", err
	}

	return run.ID, nil
}

// requireDB rejects run-store requests when no database is configured
func (s *Server) requireDB(w http.ResponseWriter) bool {
	if s.db == nil {
		s.writeError(w, http.StatusServiceUnavailable, ErrTypeUnavailable,
			"no run store configured", nil)
		return false
	}
	return true
}

// handleListRuns returns recent persisted runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	limit, offset, err := paginationFromQuery(r.URL.Query(), 20, 100)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	runs, err := s.db.ListRuns(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	s.writeJSON(w, http.StatusOK, RunsResponse{
		Runs:          runs,
		Limit:         limit,
		Offset:        offset,
		EngineVersion: EngineVersion,
	})
}

// handleGetRun returns a persisted run by ID
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	id := chi.URLParam(r, "id")

	run, err := s.db.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, http.StatusNotFound, ErrTypeNotFound,
				"run '"+id+"' not found", nil)
			return
		}
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	s.writeJSON(w, http.StatusOK, RunResponse{
		Run:           *run,
		EngineVersion: EngineVersion,
	})
}

// handleGetCells returns the grid cells of a run with pagination
func (s *Server) handleGetCells(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	id := chi.URLParam(r, "id")

	limit, offset, err := paginationFromQuery(r.URL.Query(), 1000, 10000)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	if _, err := s.db.GetRun(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, http.StatusNotFound, ErrTypeNotFound,
				"run '"+id+"' not found", nil)
			return
		}
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	cells, err := s.db.GetCells(r.Context(), id, limit, offset)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	s.writeJSON(w, http.StatusOK, CellsResponse{
		RunID:         id,
		Cells:         cells,
		Limit:         limit,
		Offset:        offset,
		EngineVersion: EngineVersion,
	})
}
