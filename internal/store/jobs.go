package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobhunter/internal/domain"
)

// UpsertJob inserts the posting or, when a row with the same URL already
// exists, refreshes its scrapable fields. Score, reasoning, status and
// notes belong to the scorer/workflow and survive re-scrapes untouched.
// Runs on the single writer connection, so the check-then-write pair
// cannot race another scraper; the unique index on url backstops it.
func UpsertJob(ctx context.Context, db *sql.DB, j domain.Job) (int64, error) {
	if strings.TrimSpace(j.URL) == "" {
		return 0, errors.New("job url is required")
	}
	if j.ScrapedAt.IsZero() {
		j.ScrapedAt = time.Now().UTC()
	}
	if j.Status == "" {
		j.Status = domain.StatusNew
	}

	var id int64
	err := db.QueryRowContext(ctx, `SELECT id FROM jobs WHERE url = ?;`, j.URL).Scan(&id)
	switch {
	case err == nil:
		_, err = db.ExecContext(ctx, `
UPDATE jobs SET
  company = ?,
  title = ?,
  location = ?,
  description = ?,
  posted_date = ?,
  scraped_at = ?,
  updated_at = CURRENT_TIMESTAMP
WHERE id = ?;`,
			j.Company, j.Title, j.Location, j.Description,
			j.PostedDate, j.ScrapedAt.Format(time.RFC3339), id,
		)
		if err != nil {
			return 0, fmt.Errorf("update job: %w", err)
		}
		return id, nil

	case errors.Is(err, sql.ErrNoRows):
		res, err := db.ExecContext(ctx, `
INSERT INTO jobs (company, title, location, description, url, posted_date, scraped_at, match_score, match_reasoning, status, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			j.Company, j.Title, j.Location, j.Description, j.URL,
			j.PostedDate, j.ScrapedAt.Format(time.RFC3339),
			j.MatchScore, j.MatchReasoning, string(j.Status), j.Notes,
		)
		if err != nil {
			return 0, fmt.Errorf("insert job: %w", err)
		}
		return res.LastInsertId()

	default:
		return 0, fmt.Errorf("lookup job by url: %w", err)
	}
}

func UpdateMatchScore(ctx context.Context, db *sql.DB, id int64, score float64, reasoning string) error {
	_, err := db.ExecContext(ctx, `
UPDATE jobs SET match_score = ?, match_reasoning = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?;`, score, reasoning, id)
	return err
}

func UpdateStatus(ctx context.Context, db *sql.DB, id int64, status domain.Status, notes string) error {
	if notes != "" {
		_, err := db.ExecContext(ctx, `
UPDATE jobs SET status = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?;`, string(status), notes, id)
		return err
	}
	_, err := db.ExecContext(ctx, `
UPDATE jobs SET status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?;`, string(status), id)
	return err
}

// ListJobsOpts filter the listing; zero values mean "no filter".
type ListJobsOpts struct {
	Status   domain.Status
	MinScore *float64
	Company  string
	Limit    int
}

func ListJobs(ctx context.Context, db *sql.DB, opts ListJobsOpts) ([]domain.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	var args []any

	if opts.Status != "" {
		q += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	if opts.MinScore != nil {
		q += ` AND match_score >= ?`
		args = append(args, *opts.MinScore)
	}
	if opts.Company != "" {
		q += ` AND company LIKE ?`
		args = append(args, "%"+opts.Company+"%")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	q += ` ORDER BY match_score DESC NULLS LAST, id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func GetJob(ctx context.Context, db *sql.DB, id int64) (domain.Job, error) {
	row := db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?;`, id)
	return scanJob(row)
}

// UnscoredJobs returns every job the scorer has not seen yet.
func UnscoredJobs(ctx context.Context, db *sql.DB) ([]domain.Job, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE match_score IS NULL ORDER BY id ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

const jobColumns = `id, company, title, location, description, url, posted_date, scraped_at, match_score, match_reasoning, status, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (domain.Job, error) {
	var j domain.Job
	var scrapedAt string
	var score sql.NullFloat64
	var status string

	err := r.Scan(
		&j.ID, &j.Company, &j.Title, &j.Location, &j.Description, &j.URL,
		&j.PostedDate, &scrapedAt, &score, &j.MatchReasoning, &status,
		&j.Notes, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return j, err
	}

	if t, perr := time.Parse(time.RFC3339, scrapedAt); perr == nil {
		j.ScrapedAt = t
	}
	if score.Valid {
		v := score.Float64
		j.MatchScore = &v
	}
	j.Status = domain.Status(status)
	return j, nil
}
