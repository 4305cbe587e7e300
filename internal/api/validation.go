package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
)

// ValidateChoiceRequest validates a choice request and returns any validation errors
func ValidateChoiceRequest(req *ChoiceRequest) error {
	if req.Model == "" {
		return fmt.Errorf("model is required")
	}
	if !models.Exists(req.Model) {
		return fmt.Errorf("model '%s' not found", req.Model)
	}

	if math.IsNaN(req.A) || math.IsInf(req.A, 0) {
		return fmt.Errorf("a must be a finite number")
	}
	if math.IsNaN(req.F) || math.IsInf(req.F, 0) {
		return fmt.Errorf("f must be a finite number")
	}
	if req.A < 0 {
		return fmt.Errorf("a must be >= 0")
	}
	if req.F < 0 {
		return fmt.Errorf("f must be >= 0")
	}

	return nil
}

// ValidateSweepRequest validates a sweep request
func ValidateSweepRequest(req *SweepRequest) error {
	if req.Model == "" {
		return fmt.Errorf("model is required")
	}
	if !models.Exists(req.Model) {
		return fmt.Errorf("model '%s' not found", req.Model)
	}

	if req.Steps < 1 {
		return fmt.Errorf("steps must be >= 1")
	}
	const maxSteps = 2000
	if req.Steps > maxSteps {
		return fmt.Errorf("steps too large (max %d)", maxSteps)
	}

	if req.AMax < 0 || req.FMax < 0 {
		return fmt.Errorf("a_max and f_max must be >= 0")
	}

	if req.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must be >= 0")
	}
	const maxTimeoutMs = 300_000
	if req.TimeoutMs > maxTimeoutMs {
		return fmt.Errorf("timeout_ms too large (max %d ms)", maxTimeoutMs)
	}

	return nil
}

// paramsOrDefault resolves the optional parameter block of a JSON request.
func paramsOrDefault(p *models.Params) models.Params {
	if p == nil {
		return models.DefaultParams()
	}
	return *p
}

// paramsFromQuery builds a parameter set from URL query values, starting from
// the paper defaults. Unknown keys are ignored.
func paramsFromQuery(values url.Values) (models.Params, error) {
	p := models.DefaultParams()

	fields := map[string]*float64{
		"u":           &p.U,
		"b":           &p.B,
		"small_delta": &p.SmallDelta,
		"delta":       &p.Delta,
		"k":           &p.K,
		"beta":        &p.Beta,
		"gamma":       &p.Gamma,
	}
	for key, target := range fields {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("invalid value for '%s': %s", key, raw)
		}
		*target = v
	}

	return p, nil
}

// paginationFromQuery parses limit/offset with bounds applied.
func paginationFromQuery(values url.Values, defaultLimit, maxLimit int) (limit, offset int, err error) {
	limit = defaultLimit
	if raw := values.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if raw := values.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}
