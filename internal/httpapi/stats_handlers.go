package httpapi

import (
	"database/sql"
	"net/http"

	"jobhunter/internal/store"
)

type StatsHandler struct {
	DB *sql.DB
}

func (h StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := store.GetStats(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, st)
}

type HealthHandler struct{}

func (HealthHandler) Get(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"ok": true})
}
