// Package score rates stored jobs against a resume with a Gemini
// model. Responses follow a fixed line-oriented format so a flaky
// generation degrades to a neutral score instead of a failed run.
package score

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"jobhunter/internal/domain"
	"jobhunter/internal/store"
)

//go:embed prompt.md
var promptTemplate string

// DefaultScore is recorded when the model answers but the SCORE line
// is missing or unparseable.
const DefaultScore = 50

// Generator produces one model completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator is the production Generator.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned an empty response")
	}
	return text, nil
}

// Result is one parsed model evaluation.
type Result struct {
	Score      float64
	Reasoning  string
	KeyMatches []string
	KeyGaps    []string
}

// BuildPrompt fills the evaluation template for one job.
func BuildPrompt(resume string, j domain.Job) string {
	r := strings.NewReplacer(
		"{{RESUME}}", resume,
		"{{COMPANY}}", j.Company,
		"{{TITLE}}", j.Title,
		"{{LOCATION}}", j.Location,
		"{{DESCRIPTION}}", j.Description,
	)
	return r.Replace(promptTemplate)
}

// ParseResult reads the fixed-format response. Markers may arrive in
// any order; anything unrecognized is ignored. A missing or invalid
// SCORE line yields DefaultScore rather than an error.
func ParseResult(text string) Result {
	res := Result{Score: DefaultScore}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SCORE:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "SCORE:"))
			raw = strings.TrimSuffix(raw, "%")
			if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 && f <= 100 {
				res.Score = f
			}
		case strings.HasPrefix(line, "REASONING:"):
			res.Reasoning = strings.TrimSpace(strings.TrimPrefix(line, "REASONING:"))
		case strings.HasPrefix(line, "KEY_MATCHES:"):
			res.KeyMatches = splitList(strings.TrimPrefix(line, "KEY_MATCHES:"))
		case strings.HasPrefix(line, "KEY_GAPS:"):
			res.KeyGaps = splitList(strings.TrimPrefix(line, "KEY_GAPS:"))
		}
	}
	return res
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" && !strings.EqualFold(part, "none") {
			out = append(out, part)
		}
	}
	return out
}

// ReasoningText flattens a Result into the single text column the
// store keeps for it.
func (r Result) ReasoningText() string {
	var sb strings.Builder
	sb.WriteString(r.Reasoning)
	if len(r.KeyMatches) > 0 {
		sb.WriteString("\nMatches: ")
		sb.WriteString(strings.Join(r.KeyMatches, ", "))
	}
	if len(r.KeyGaps) > 0 {
		sb.WriteString("\nGaps: ")
		sb.WriteString(strings.Join(r.KeyGaps, ", "))
	}
	return strings.TrimSpace(sb.String())
}

// Scorer evaluates stored jobs one at a time.
type Scorer struct {
	gen    Generator
	resume string
	log    *zap.Logger
}

func New(gen Generator, resume string, log *zap.Logger) (*Scorer, error) {
	if strings.TrimSpace(resume) == "" {
		return nil, fmt.Errorf("resume text is empty")
	}
	return &Scorer{gen: gen, resume: resume, log: log}, nil
}

func (s *Scorer) ScoreJob(ctx context.Context, j domain.Job) (Result, error) {
	text, err := s.gen.Generate(ctx, BuildPrompt(s.resume, j))
	if err != nil {
		return Result{}, err
	}
	return ParseResult(text), nil
}

// Summary reports one ScoreAll pass.
type Summary struct {
	Scored    int `json:"scored"`
	Failed    int `json:"failed"`
	Qualified int `json:"qualified"`
}

// ScoreAll evaluates every unscored job and persists the results. A
// failed evaluation skips that job and moves on; the job stays
// unscored and is retried on the next pass.
func (s *Scorer) ScoreAll(ctx context.Context, db *sql.DB, minScore float64) (Summary, error) {
	var sum Summary

	jobs, err := store.UnscoredJobs(ctx, db)
	if err != nil {
		return sum, err
	}

	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res, err := s.ScoreJob(ctx, j)
		if err != nil {
			sum.Failed++
			s.log.Warn("scoring failed, leaving job unscored",
				zap.Int64("id", j.ID),
				zap.String("title", j.Title),
				zap.Error(err),
			)
			continue
		}

		if err := store.UpdateMatchScore(ctx, db, j.ID, res.Score, res.ReasoningText()); err != nil {
			sum.Failed++
			s.log.Warn("persisting score failed",
				zap.Int64("id", j.ID), zap.Error(err))
			continue
		}

		sum.Scored++
		if res.Score >= minScore {
			sum.Qualified++
		}

		s.log.Info("job scored",
			zap.Int64("id", j.ID),
			zap.String("title", j.Title),
			zap.Float64("score", res.Score),
		)
	}
	return sum, nil
}
