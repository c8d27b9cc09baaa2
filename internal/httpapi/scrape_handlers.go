package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"jobhunter/internal/domain"
	"jobhunter/internal/engine"
	"jobhunter/internal/events"
	"jobhunter/internal/score"
	"jobhunter/internal/task"
)

type ScrapeHandler struct {
	Tasks *task.Registry
	Hub   *events.Hub
	Log   *zap.Logger

	RunScrape func(ctx context.Context, onJob func(domain.Job)) (engine.ScrapeReport, error)
	RunScore  func(ctx context.Context) (score.Summary, error)
}

// Start kicks off a background scrape. At most one scrape runs at a
// time; a second request while one is in flight gets 409.
func (h ScrapeHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Tasks.CreateIfIdle("scrape")
	if !ok {
		WriteError(w, r, http.StatusConflict, "scrape_running", "a scrape run is already in progress")
		return
	}
	reqID := RequestIDFrom(r.Context())

	// Detached from the request context; the run outlives the response.
	go func() {
		saved := 0
		rep, err := h.RunScrape(context.Background(), func(domain.Job) {
			saved++
			h.Tasks.Update(id, fmt.Sprintf("%d jobs saved", saved))
		})
		if err != nil {
			h.Tasks.Fail(id, err)
			h.Hub.Publish(events.MakeEvent(reqID, "scrape_failed", 1, map[string]any{
				"task_id": id,
				"error":   err.Error(),
			}))
			h.Log.Error("scrape task failed", zap.String("task_id", id), zap.Error(err))
			return
		}
		h.Tasks.Complete(id, rep)
		h.Hub.Publish(events.MakeEvent(reqID, "scrape_finished", 1, map[string]any{
			"task_id": id,
			"report":  rep,
		}))
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"task_id": id})
}

// Status reports the most recent scrape task.
func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	t, ok := h.Tasks.Latest("scrape")
	if !ok {
		writeJSON(w, map[string]any{"state": "never_run"})
		return
	}
	writeJSON(w, t)
}

// StartScore kicks off resume scoring of every unscored job.
func (h ScrapeHandler) StartScore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Tasks.CreateIfIdle("score")
	if !ok {
		WriteError(w, r, http.StatusConflict, "score_running", "a scoring run is already in progress")
		return
	}
	reqID := RequestIDFrom(r.Context())

	go func() {
		sum, err := h.RunScore(context.Background())
		if err != nil {
			h.Tasks.Fail(id, err)
			h.Log.Error("score task failed", zap.String("task_id", id), zap.Error(err))
			return
		}
		h.Tasks.Complete(id, sum)
		h.Hub.Publish(events.MakeEvent(reqID, "score_finished", 1, map[string]any{
			"task_id": id,
			"summary": sum,
		}))
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"task_id": id})
}
