package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/campuspulse/activity-rank/internal/model"
	"github.com/campuspulse/activity-rank/internal/ranker"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type rankRequest struct {
	Records    []model.ActivityRecord   `json:"records"`
	HomeSchool string                   `json:"home_school,omitempty"`
	Reference  *model.ReferenceLocation `json:"reference,omitempty"`
	Language   string                   `json:"language,omitempty"`
}

type rankResponse struct {
	Records []ranker.Annotated `json:"records"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "records are required")
		return
	}

	lang := req.Language
	if lang == "" {
		lang = s.lang
	}

	result := s.engine.Rank(req.Records, req.HomeSchool, req.Reference, time.Now())
	writeJSON(w, http.StatusOK, rankResponse{
		Records: ranker.Annotate(result, s.cache, lang),
	})
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	resp := map[string]any{}
	if school := s.locator.FindNearestSchool(lat, lng); school != nil {
		resp["school"] = school
	}
	if city := s.locator.FindNearestCity(lat, lng); city != nil {
		resp["city"] = city
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tz := q.Get("tz")
	if tz == "" {
		writeError(w, http.StatusBadRequest, "tz is required")
		return
	}
	lang := q.Get("lang")
	if lang == "" {
		lang = s.lang
	}

	// Date decomposition goes through the shared parse cache so
	// repeated lookups of one snapshot stay cheap.
	date := q.Get("date")
	if raw := q.Get("timestamp"); raw != "" {
		date = s.cache.Parse(raw).Date
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"label": labelFor(tz, date, lang),
	})
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	filter := storeFilter(r)
	records, err := s.store.ListActivities(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list activities failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}
