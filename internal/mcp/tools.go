package mcp

import (
	"context"
	"time"

	"github.com/claude/liftmax/internal/engine"
	"github.com/claude/liftmax/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the 90-day estimation window.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -engine.EstimationWindowDays)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetBaselineEstimate = mcp.NewTool("get_baseline_estimate",
	mcp.WithDescription("Estimate the current baseline one-rep max for a lift, with an uncertainty range and a 0–1 confidence score. Derived from logged sets in the last 90 days, calibrated against tested maxima."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Lift type"), mcp.Enum("bench", "squat", "deadlift", "overhead_press")),
	mcp.WithString("date", mcp.Description("Reference date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetStrengthCategory = mcp.NewTool("get_strength_category",
	mcp.WithDescription("Classify the current 1RM for a lift into a strength tier (novice/intermediate/advanced/elite) relative to the user's bodyweight. Requires a saved profile."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Lift type"), mcp.Enum("bench", "squat", "deadlift", "overhead_press")),
)

var toolGetEstimateHistory = mcp.NewTool("get_estimate_history",
	mcp.WithDescription("Baseline 1RM trend for a lift: one estimate per week, computed from only the data available at each reference date."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Lift type"), mcp.Enum("bench", "squat", "deadlift", "overhead_press")),
	mcp.WithNumber("weeks", mcp.Description("Number of weekly points. Defaults to 12, max 104.")),
)

var toolGetTrainingSets = mcp.NewTool("get_training_sets",
	mcp.WithDescription("Query logged training sets (weight, reps, reps-in-reserve) with optional lift filter."),
	mcp.WithString("lift", mcp.Description("Filter by lift type"), mcp.Enum("bench", "squat", "deadlift", "overhead_press")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetTestedMaxes = mcp.NewTool("get_tested_maxes",
	mcp.WithDescription("Query actually-tested single-rep maxima with optional lift filter."),
	mcp.WithString("lift", mcp.Description("Filter by lift type"), mcp.Enum("bench", "squat", "deadlift", "overhead_press")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to one year ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// estimatorFor builds an estimator honoring the user's stored calibration
// factors when any exist.
func (h *handlers) estimatorFor(ctx context.Context, uid int) (*engine.Estimator, error) {
	est := engine.NewEstimator()
	factors, err := h.ds.GetCalibrations(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(factors) > 0 {
		est.Calibration = engine.NewStoredFactors(factors)
	}
	return est, nil
}

// loadRecords fetches sets covering the estimation window before ref and
// tested maxima of any age for the lift.
func (h *handlers) loadRecords(ctx context.Context, uid int, lift models.LiftType, ref time.Time) ([]models.TrainingSet, []models.TestedMax, error) {
	end := ref.Add(time.Second)
	sets, err := h.ds.QueryTrainingSets(ctx, uid, string(lift), ref.AddDate(0, 0, -(engine.EstimationWindowDays+1)), end)
	if err != nil {
		return nil, nil, err
	}
	tests, err := h.ds.QueryTestedMaxes(ctx, uid, string(lift), ref.AddDate(-20, 0, 0), end)
	if err != nil {
		return nil, nil, err
	}
	return sets, tests, nil
}

func (h *handlers) getBaselineEstimate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	liftStr, err := req.RequireString("lift")
	if err != nil {
		return mcp.NewToolResultError("lift parameter is required"), nil
	}
	lift, err := models.ParseLiftType(liftStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ref := time.Now()
	if d := req.GetString("date", ""); d != "" {
		ref, err = parseFlexTime(d)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
	}

	uid := UserIDFromContext(ctx)
	est, err := h.estimatorFor(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_baseline_estimate", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	sets, tests, err := h.loadRecords(ctx, uid, lift, ref)
	if err != nil {
		h.log.Error("mcp get_baseline_estimate", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(est.EstimateBaseline(lift, sets, tests, ref))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStrengthCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	liftStr, err := req.RequireString("lift")
	if err != nil {
		return mcp.NewToolResultError("lift parameter is required"), nil
	}
	lift, err := models.ParseLiftType(liftStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	profile, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError("no profile saved: bodyweight is required for classification"), nil
	}

	ref := time.Now()
	est, err := h.estimatorFor(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	sets, tests, err := h.loadRecords(ctx, uid, lift, ref)
	if err != nil {
		h.log.Error("mcp get_strength_category", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	ce, err := est.EstimateWithCategory(lift, sets, tests, *profile, ref)
	if err != nil {
		return mcp.NewToolResultError("classification failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(ce)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getEstimateHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	liftStr, err := req.RequireString("lift")
	if err != nil {
		return mcp.NewToolResultError("lift parameter is required"), nil
	}
	lift, err := models.ParseLiftType(liftStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	weeks := req.GetInt("weeks", 12)
	if weeks < 1 || weeks > 104 {
		return mcp.NewToolResultError("weeks must be between 1 and 104"), nil
	}

	uid := UserIDFromContext(ctx)
	now := time.Now()
	est, err := h.estimatorFor(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	sets, err := h.ds.QueryTrainingSets(ctx, uid, string(lift),
		now.AddDate(0, 0, -(weeks*7+engine.EstimationWindowDays+1)), now.Add(time.Second))
	if err != nil {
		h.log.Error("mcp get_estimate_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	tests, err := h.ds.QueryTestedMaxes(ctx, uid, string(lift), now.AddDate(-20, 0, 0), now.Add(time.Second))
	if err != nil {
		h.log.Error("mcp get_estimate_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type point struct {
		Date        string  `json:"date"`
		Baseline1RM float64 `json:"baseline_1rm"`
		Confidence  float64 `json:"confidence"`
	}
	points := make([]point, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		ref := now.AddDate(0, 0, -7*i)
		be := est.EstimateBaseline(lift, setsKnownBy(sets, ref), testsKnownBy(tests, ref), ref)
		points = append(points, point{
			Date:        ref.Format("2006-01-02"),
			Baseline1RM: be.Baseline1RM,
			Confidence:  be.Confidence,
		})
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lift := req.GetString("lift", "")
	if lift != "" {
		if _, err := models.ParseLiftType(lift); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sets, err := h.ds.QueryTrainingSets(ctx, UserIDFromContext(ctx), lift, start, end)
	if err != nil {
		h.log.Error("mcp get_training_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTestedMaxes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lift := req.GetString("lift", "")
	if lift != "" {
		if _, err := models.ParseLiftType(lift); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	end := time.Now()
	start := end.AddDate(-1, 0, 0)
	if s := req.GetString("start", ""); s != "" {
		st, err := parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		start = st
	}
	if e := req.GetString("end", ""); e != "" {
		et, err := parseFlexTime(e)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		end = et
	}

	tests, err := h.ds.QueryTestedMaxes(ctx, UserIDFromContext(ctx), lift, start, end)
	if err != nil {
		h.log.Error("mcp get_tested_maxes", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(tests)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func setsKnownBy(sets []models.TrainingSet, ref time.Time) []models.TrainingSet {
	var out []models.TrainingSet
	for _, s := range sets {
		if !s.PerformedAt.After(ref) {
			out = append(out, s)
		}
	}
	return out
}

func testsKnownBy(tests []models.TestedMax, ref time.Time) []models.TestedMax {
	var out []models.TestedMax
	for _, t := range tests {
		if !t.TestedAt.After(ref) {
			out = append(out, t)
		}
	}
	return out
}
