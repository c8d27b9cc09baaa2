package httpapi

import (
	"net/http"
	"strings"

	"jobhunter/internal/task"
)

type TasksHandler struct {
	Tasks *task.Registry
}

func (h TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Tasks.List())
}

func (h TasksHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/tasks/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "task id is required")
		return
	}

	t, ok := h.Tasks.Get(id)
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such task")
		return
	}
	writeJSON(w, t)
}
