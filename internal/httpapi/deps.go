package httpapi

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"jobhunter/internal/config"
	"jobhunter/internal/domain"
	"jobhunter/internal/engine"
	"jobhunter/internal/events"
	"jobhunter/internal/score"
	"jobhunter/internal/task"
)

type Deps struct {
	DB    *sql.DB
	Cfg   config.Config
	Log   *zap.Logger
	Hub   *events.Hub
	Tasks *task.Registry

	// Pipeline entrypoints, injected for testability.
	RunScrape func(ctx context.Context, onJob func(domain.Job)) (engine.ScrapeReport, error)
	RunScore  func(ctx context.Context) (score.Summary, error)
}
