// Package engine wires the pipeline end to end: resolve credentials,
// run the scraper, persist what it yields, and score what is stored.
// The CLI and the HTTP API both drive runs through it.
package engine

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"jobhunter/internal/config"
	"jobhunter/internal/domain"
	"jobhunter/internal/events"
	"jobhunter/internal/scrape"
	"jobhunter/internal/score"
	"jobhunter/internal/secrets"
	"jobhunter/internal/store"
)

type Engine struct {
	Cfg config.Config
	DB  *store.DB
	Log *zap.Logger
	Hub *events.Hub // optional; nil when running from the CLI
}

// ScrapeReport summarizes one scrape run.
type ScrapeReport struct {
	Found    int      `json:"found"`
	Saved    int      `json:"saved"`
	Degraded []string `json:"degraded,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

// Credentials pulls every source credential once, up front.
func Credentials() scrape.Credentials {
	return scrape.Credentials{
		GoogleAPIKey:   secrets.Lookup(secrets.KeyGoogleSearch),
		GoogleEngineID: secrets.Lookup(secrets.KeyGoogleSearchCX),
		USAJobsAPIKey:  secrets.Lookup(secrets.KeyUSAJobsAPI),
		USAJobsEmail:   secrets.Lookup(secrets.KeyUSAJobsEmail),
		IMAPPassword:   secrets.Lookup(secrets.KeyIMAPPassword),
	}
}

// Scrape runs the full pipeline and upserts every yielded job. onJob,
// when set, observes each job after it is persisted (with its row id
// filled in).
func (e *Engine) Scrape(ctx context.Context, onJob func(domain.Job)) (ScrapeReport, error) {
	var rep ScrapeReport

	runner := scrape.NewRunner(e.Cfg, Credentials(), e.Log)
	if err := runner.Preflight(); err != nil {
		return rep, err
	}

	for job := range runner.Jobs(ctx) {
		rep.Found++

		id, err := store.UpsertJob(ctx, e.DB.Pool, job)
		if err != nil {
			e.Log.Warn("saving job failed",
				zap.String("url", job.URL), zap.Error(err))
			continue
		}
		rep.Saved++
		job.ID = id

		e.publish("job_saved", map[string]any{
			"id":      id,
			"company": job.Company,
			"title":   job.Title,
		})
		if onJob != nil {
			onJob(job)
		}
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	rep.Degraded = runner.Degraded()
	for _, f := range runner.Failures() {
		rep.Failures = append(rep.Failures, fmt.Sprintf("%s: %v", f.Source, f.Err))
	}

	e.Log.Info("scrape run finished",
		zap.Int("found", rep.Found),
		zap.Int("saved", rep.Saved),
		zap.Int("failed_sources", len(rep.Failures)),
	)
	return rep, nil
}

// Score evaluates every unscored stored job against the configured
// resume.
func (e *Engine) Score(ctx context.Context) (score.Summary, error) {
	key := secrets.Lookup(secrets.KeyGeminiAPI)
	if key == "" {
		return score.Summary{}, fmt.Errorf("no Gemini API key: store one via `jobhunter secret set %s`", secrets.KeyGeminiAPI)
	}

	resume, err := os.ReadFile(e.Cfg.Scoring.ResumePath)
	if err != nil {
		return score.Summary{}, fmt.Errorf("reading resume: %w", err)
	}

	gen, err := score.NewGeminiGenerator(ctx, key, e.Cfg.Scoring.Model)
	if err != nil {
		return score.Summary{}, err
	}

	scorer, err := score.New(gen, string(resume), e.Log)
	if err != nil {
		return score.Summary{}, err
	}

	sum, err := scorer.ScoreAll(ctx, e.DB.Pool, e.Cfg.Scoring.MinMatchScore)
	if err != nil {
		return sum, err
	}
	e.publish("score_finished", sum)
	return sum, nil
}

func (e *Engine) publish(typ string, data any) {
	if e.Hub != nil {
		e.Hub.Publish(events.MakeEvent("", typ, 1, data))
	}
}
