package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/liftmax/internal/engine"
	"github.com/claude/liftmax/internal/models"
	"github.com/claude/liftmax/internal/storage"
	"github.com/go-chi/chi/v5"
)

// dashboardEntry is one lift's estimate, with the strength category when a
// profile exists to classify against.
type dashboardEntry struct {
	engine.BaselineEstimate
	Category *engine.StrengthCategory `json:"category,omitempty"`
}

// historyPoint is one reference date's baseline in a trend series.
type historyPoint struct {
	Date        string  `json:"date"`
	Baseline1RM float64 `json:"baseline_1rm"`
	Low         float64 `json:"low"`
	High        float64 `json:"high"`
	Confidence  float64 `json:"confidence"`
}

// estimatorFor builds a per-request estimator: stored calibration factors
// when the user has any, the derived-factor policy otherwise.
func (s *Server) estimatorFor(r *http.Request, uid int) (*engine.Estimator, error) {
	est := engine.NewEstimator()
	factors, err := s.db.GetCalibrations(r.Context(), uid)
	if err != nil {
		return nil, err
	}
	if len(factors) > 0 {
		est.Calibration = engine.NewStoredFactors(factors)
	}
	return est, nil
}

// loadRecords fetches the user's sets and tested maxima needed to estimate
// as of ref: sets a little beyond the estimation window (the engine applies
// the exact cut), tested maxima of any age.
func (s *Server) loadRecords(r *http.Request, uid int, lift string, ref time.Time) ([]models.TrainingSet, []models.TestedMax, error) {
	end := ref.Add(time.Second)
	sets, err := s.db.QueryTrainingSets(r.Context(), uid, lift, ref.AddDate(0, 0, -(engine.EstimationWindowDays+1)), end)
	if err != nil {
		return nil, nil, err
	}
	tests, err := s.db.QueryTestedMaxes(r.Context(), uid, lift, ref.AddDate(-20, 0, 0), end)
	if err != nil {
		return nil, nil, err
	}
	return sets, tests, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	ref := time.Now()

	est, err := s.estimatorFor(r, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	sets, tests, err := s.loadRecords(r, uid, "", ref)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	profile, err := s.db.GetProfile(r.Context(), uid)
	if err != nil && !errors.Is(err, storage.ErrNoProfile) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	entries := make([]dashboardEntry, 0, len(models.KnownLifts()))
	for _, lift := range models.KnownLifts() {
		if profile == nil {
			entries = append(entries, dashboardEntry{
				BaselineEstimate: est.EstimateBaseline(lift, sets, tests, ref),
			})
			continue
		}
		ce, err := est.EstimateWithCategory(lift, sets, tests, *profile, ref)
		if err != nil {
			s.log.Error("dashboard estimate", "lift", lift, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		cat := ce.Category
		entries = append(entries, dashboardEntry{BaselineEstimate: ce.BaselineEstimate, Category: &cat})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	lift, err := models.ParseLiftType(chi.URLParam(r, "lift"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	uid := userIDFromContext(r)
	ref := time.Now()

	est, err := s.estimatorFor(r, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	sets, tests, err := s.loadRecords(r, uid, string(lift), ref)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	profile, err := s.db.GetProfile(r.Context(), uid)
	if err != nil && !errors.Is(err, storage.ErrNoProfile) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusOK, dashboardEntry{BaselineEstimate: est.EstimateBaseline(lift, sets, tests, ref)})
		return
	}

	ce, err := est.EstimateWithCategory(lift, sets, tests, *profile, ref)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	cat := ce.Category
	writeJSON(w, http.StatusOK, dashboardEntry{BaselineEstimate: ce.BaselineEstimate, Category: &cat})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	lift, err := models.ParseLiftType(chi.URLParam(r, "lift"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	weeks := 12
	if v := r.URL.Query().Get("weeks"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 104 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weeks must be between 1 and 104"})
			return
		}
		weeks = parsed
	}

	uid := userIDFromContext(r)
	now := time.Now()

	est, err := s.estimatorFor(r, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	// One fetch wide enough for the oldest reference date's window.
	sets, err := s.db.QueryTrainingSets(r.Context(), uid, string(lift),
		now.AddDate(0, 0, -(weeks*7+engine.EstimationWindowDays+1)), now.Add(time.Second))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	tests, err := s.db.QueryTestedMaxes(r.Context(), uid, string(lift), now.AddDate(-20, 0, 0), now.Add(time.Second))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	points := make([]historyPoint, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		ref := now.AddDate(0, 0, -7*i)
		// Only records known by ref: the trend reflects what the estimate
		// would have been at that date.
		visibleSets := recordsBefore(sets, ref)
		visibleTests := testsBefore(tests, ref)
		be := est.EstimateBaseline(lift, visibleSets, visibleTests, ref)
		points = append(points, historyPoint{
			Date:        ref.Format("2006-01-02"),
			Baseline1RM: be.Baseline1RM,
			Low:         be.Uncertainty.Low,
			High:        be.Uncertainty.High,
			Confidence:  be.Confidence,
		})
	}
	writeJSON(w, http.StatusOK, points)
}

func recordsBefore(sets []models.TrainingSet, ref time.Time) []models.TrainingSet {
	var out []models.TrainingSet
	for _, s := range sets {
		if !s.PerformedAt.After(ref) {
			out = append(out, s)
		}
	}
	return out
}

func testsBefore(tests []models.TestedMax, ref time.Time) []models.TestedMax {
	var out []models.TestedMax
	for _, t := range tests {
		if !t.TestedAt.After(ref) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Server) handleGetCalibrations(w http.ResponseWriter, r *http.Request) {
	factors, err := s.db.GetCalibrations(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, factors)
}

func (s *Server) handlePutCalibration(w http.ResponseWriter, r *http.Request) {
	lift, err := models.ParseLiftType(chi.URLParam(r, "lift"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var payload struct {
		Factor float64 `json:"factor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if payload.Factor < engine.MinCalibrationFactor || payload.Factor > engine.MaxCalibrationFactor {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "factor must be within [0.85, 1.15]",
		})
		return
	}

	if err := s.db.UpsertCalibration(r.Context(), userIDFromContext(r), lift, payload.Factor); err != nil {
		s.log.Error("upsert calibration", "lift", lift, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lift": lift, "factor": payload.Factor})
}
