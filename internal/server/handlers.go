package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/liftmax/internal/models"
	"github.com/google/uuid"
)

// setPayload is the wire shape for one logged set.
type setPayload struct {
	Lift        string    `json:"lift"`
	PerformedAt time.Time `json:"performed_at"`
	WeightKg    float64   `json:"weight_kg"`
	Reps        int       `json:"reps"`
	RIR         int       `json:"rir"`
}

// testPayload is the wire shape for one tested max.
type testPayload struct {
	Lift     string    `json:"lift"`
	TestedAt time.Time `json:"tested_at"`
	WeightKg float64   `json:"weight_kg"`
}

func (s *Server) handleIngestSets(w http.ResponseWriter, r *http.Request) {
	var payload []setPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := userIDFromContext(r)
	sets := make([]models.TrainingSet, 0, len(payload))
	for _, p := range payload {
		lift, err := models.ParseLiftType(p.Lift)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if p.WeightKg <= 0 || p.Reps < 1 || p.RIR < 0 || p.PerformedAt.IsZero() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "set requires weight_kg > 0, reps ≥ 1, rir ≥ 0 and performed_at"})
			return
		}
		sets = append(sets, models.TrainingSet{
			ID:          uuid.New(),
			UserID:      uid,
			Lift:        lift,
			PerformedAt: p.PerformedAt,
			WeightKg:    p.WeightKg,
			Reps:        p.Reps,
			RIR:         p.RIR,
		})
	}

	inserted, err := s.db.InsertTrainingSets(r.Context(), sets)
	if err != nil {
		s.log.Error("ingest sets", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"received": int64(len(sets)), "inserted": inserted})
}

func (s *Server) handleIngestTests(w http.ResponseWriter, r *http.Request) {
	var payload []testPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := userIDFromContext(r)
	tests := make([]models.TestedMax, 0, len(payload))
	for _, p := range payload {
		lift, err := models.ParseLiftType(p.Lift)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if p.WeightKg <= 0 || p.TestedAt.IsZero() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tested max requires weight_kg > 0 and tested_at"})
			return
		}
		tests = append(tests, models.TestedMax{
			ID:       uuid.New(),
			UserID:   uid,
			Lift:     lift,
			TestedAt: p.TestedAt,
			WeightKg: p.WeightKg,
		})
	}

	inserted, err := s.db.InsertTestedMaxes(r.Context(), tests)
	if err != nil {
		s.log.Error("ingest tests", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"received": int64(len(tests)), "inserted": inserted})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"user_id": userIDFromContext(r)})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.db.GetProfile(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Age          int     `json:"age"`
		Sex          string  `json:"sex"`
		BodyweightKg float64 `json:"bodyweight_kg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	sex, err := models.ParseSex(payload.Sex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if payload.Age <= 0 || payload.BodyweightKg <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "profile requires age > 0 and bodyweight_kg > 0"})
		return
	}

	profile := models.UserProfile{
		UserID:       userIDFromContext(r),
		Age:          payload.Age,
		Sex:          sex,
		BodyweightKg: payload.BodyweightKg,
	}
	if err := s.db.UpsertProfile(r.Context(), profile); err != nil {
		s.log.Error("upsert profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleQuerySets(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	lift, ok := optionalLift(w, r)
	if !ok {
		return
	}

	sets, err := s.db.QueryTrainingSets(r.Context(), userIDFromContext(r), lift, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleQueryTests(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	lift, ok := optionalLift(w, r)
	if !ok {
		return
	}

	tests, err := s.db.QueryTestedMaxes(r.Context(), userIDFromContext(r), lift, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, tests)
}

// optionalLift validates the lift query parameter when present. Returns
// ("", true) when absent, ("", false) after writing an error response.
func optionalLift(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("lift")
	if raw == "" {
		return "", true
	}
	lift, err := models.ParseLiftType(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return "", false
	}
	return string(lift), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: the estimation window
		end = time.Now()
		start = end.AddDate(0, 0, -90)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
		}
	}
	return
}
