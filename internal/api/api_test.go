package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
	"github.com/manuelbieri/shelegia-motta-2021/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "killzone.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return NewServer(db, nil)
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Routes().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)
	w := doJSON(t, server, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListModels(t *testing.T) {
	server := newTestServer(t)
	w := doJSON(t, server, "GET", "/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ModelsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, EngineVersion, resp.EngineVersion)

	ids := make([]string, len(resp.Models))
	for i, spec := range resp.Models {
		ids[i] = spec.ID
	}
	require.Equal(t, []string{"acquisition", "bargaining", "base", "twosided", "unobservable"}, ids)
}

func TestThresholds(t *testing.T) {
	server := newTestServer(t)
	w := doJSON(t, server, "GET", "/models/base/thresholds", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ThresholdsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "base", resp.Model)
	require.InDelta(t, 0.25, resp.Thresholds.CopyingCosts[models.ThresholdFYYs], 1e-9)
	require.InDelta(t, 1.75, resp.Thresholds.CopyingCosts[models.ThresholdFYNs], 1e-9)
	require.InDelta(t, 0.19, resp.Thresholds.Assets[models.ThresholdABarS], 1e-9)
	require.InDelta(t, 0.45, resp.Thresholds.Assets[models.ThresholdABarC], 1e-9)
}

func TestThresholdsQueryParams(t *testing.T) {
	server := newTestServer(t)
	w := doJSON(t, server, "GET", "/models/bargaining/thresholds?beta=0.6", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ThresholdsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.InDelta(t, 0.6, resp.Params.Beta, 1e-9)
	require.InDelta(t, 0.3, resp.Thresholds.CopyingCosts[models.ThresholdFYYs], 1e-9)
	require.InDelta(t, 0.2, resp.Thresholds.CopyingCosts[models.ThresholdFYNc], 1e-9)
}

func TestThresholdsUnknownModel(t *testing.T) {
	server := newTestServer(t)
	w := doJSON(t, server, "GET", "/models/cournot/thresholds", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, ErrTypeModelNotFound, resp.Type)
}

func TestThresholdsInvalidParams(t *testing.T) {
	server := newTestServer(t)
	// K = 0.4 violates K < delta/2
	w := doJSON(t, server, "GET", "/models/base/thresholds?k=0.4", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, ErrTypeInvalidParams, resp.Type)
}

func TestPayoffs(t *testing.T) {
	server := newTestServer(t)
	w := doJSON(t, server, "GET", "/models/base/payoffs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PayoffsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Payoffs, 6)
	for config, payoff := range resp.Payoffs {
		require.InDelta(t, payoff.W, payoff.PiI+payoff.PiE+payoff.CS, 1e-9,
			"welfare identity for %s", config)
	}
}

func TestChoiceKillZone(t *testing.T) {
	server := newTestServer(t)
	w := doJSON(t, server, "POST", "/choice", ChoiceRequest{Model: "base", A: 0.1, F: 0.5})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChoiceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, models.ChoiceComplement, resp.Choice.Entrant)
	require.Equal(t, models.ChoiceRefrain, resp.Choice.Incumbent)
	require.Equal(t, models.DevelopmentSuccess, resp.Choice.Development)
	require.True(t, resp.KillZone)
	require.Equal(t, "base", resp.Echo.Model)
}

func TestChoiceValidation(t *testing.T) {
	server := newTestServer(t)

	for name, req := range map[string]ChoiceRequest{
		"missing model": {A: 0.1, F: 0.5},
		"unknown model": {Model: "cournot", A: 0.1, F: 0.5},
		"negative a":    {Model: "base", A: -1, F: 0.5},
		"negative f":    {Model: "base", A: 0.1, F: -1},
	} {
		w := doJSON(t, server, "POST", "/choice", req)
		require.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestChoiceInvalidJSON(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest("POST", "/choice", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	server.Routes().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSweepPersistsRun(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, "POST", "/sweep", SweepRequest{Model: "base", Steps: 10})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SweepResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.RunID)
	require.Equal(t, uint64(121), resp.Summary.TotalEvaluated)
	require.Greater(t, resp.Summary.KillZoneShare, 0.0)

	// The run is retrievable
	w = doJSON(t, server, "GET", "/runs/"+resp.RunID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var runResp RunResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&runResp))
	require.Equal(t, "base", runResp.Run.Model)
	require.Equal(t, uint64(121), runResp.Run.TotalEvaluated)

	// And so are its cells
	w = doJSON(t, server, "GET", "/runs/"+resp.RunID+"/cells", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cellsResp CellsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cellsResp))
	require.Len(t, cellsResp.Cells, 121)

	// And it shows up in the run listing
	w = doJSON(t, server, "GET", "/runs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var runsResp RunsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&runsResp))
	require.Len(t, runsResp.Runs, 1)
}

func TestSweepValidation(t *testing.T) {
	server := newTestServer(t)

	for name, req := range map[string]SweepRequest{
		"missing model": {Steps: 10},
		"unknown model": {Model: "cournot", Steps: 10},
		"zero steps":    {Model: "base"},
		"huge steps":    {Model: "base", Steps: 5000},
	} {
		w := doJSON(t, server, "POST", "/sweep", req)
		require.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

// Without a configured store the sweep still runs, nothing is recorded, and
// the run endpoints report the store as unavailable.
func TestSweepWithoutStore(t *testing.T) {
	server := NewServer(nil, nil)

	w := doJSON(t, server, "POST", "/sweep", SweepRequest{Model: "base", Steps: 5})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SweepResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Empty(t, resp.RunID)
	require.Equal(t, uint64(36), resp.Summary.TotalEvaluated)

	for _, path := range []string{"/runs", "/runs/some-id", "/runs/some-id/cells"} {
		w := doJSON(t, server, "GET", path, nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code, path)

		var errResp ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
		require.Equal(t, ErrTypeUnavailable, errResp.Type, path)
	}
}

func TestGetRunNotFound(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, "GET", "/runs/no-such-run", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, server, "GET", "/runs/no-such-run/cells", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlotSVG(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, "GET", "/models/base/plot.svg", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), "<svg")

	w = doJSON(t, server, "GET", "/models/acquisition/plot.svg?figure=responses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "<svg")
}

func TestPlotSVGUnknownFigure(t *testing.T) {
	server := newTestServer(t)
	w := doJSON(t, server, "GET", "/models/base/plot.svg?figure=heatmap", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
