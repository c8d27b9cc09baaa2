package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"jobhunter/internal/domain"
	"jobhunter/internal/events"
	"jobhunter/internal/store"
)

type JobsHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := store.ListJobsOpts{
		Company: q.Get("company"),
		Limit:   200,
	}
	if v := q.Get("status"); v != "" {
		status, err := domain.ParseStatus(v)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_status", err.Error())
			return
		}
		opts.Status = status
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "bad_limit", "limit must be a non-negative integer")
			return
		}
		opts.Limit = n
	}
	if v := q.Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_min_score", "min_score must be a number")
			return
		}
		opts.MinScore = &f
	}
	jobs, err := store.ListJobs(r.Context(), h.DB, opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, jobs)
}

func (h JobsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id, suffix, ok := idFromPath(r.URL.Path, "/jobs/")
	if !ok || suffix != "" {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "invalid job id")
		return
	}

	job, err := store.GetJob(r.Context(), h.DB, id)
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such job")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, job)
}

// UpdateStatusByPath handles POST /jobs/{id}/status.
func (h JobsHandler) UpdateStatusByPath(w http.ResponseWriter, r *http.Request) {
	id, suffix, ok := idFromPath(r.URL.Path, "/jobs/")
	if !ok || suffix != "status" {
		WriteError(w, r, http.StatusBadRequest, "bad_path", "expected /jobs/{id}/status")
		return
	}

	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_body", "invalid JSON body")
		return
	}

	status, err := domain.ParseStatus(body.Status)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_status", err.Error())
		return
	}

	if _, err := store.GetJob(r.Context(), h.DB, id); errors.Is(err, sql.ErrNoRows) {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such job")
		return
	} else if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	if err := store.UpdateStatus(r.Context(), h.DB, id, status, body.Notes); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, "job_status_changed", 1, map[string]any{
		"id":     id,
		"status": status,
	}))
	writeJSON(w, map[string]any{"ok": true, "id": id, "status": status})
}
