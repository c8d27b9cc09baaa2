package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobhunter/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func TestUpsertJobRequiresURL(t *testing.T) {
	db := testDB(t)
	_, err := UpsertJob(context.Background(), db.Pool, domain.Job{Title: "Architect"})
	require.Error(t, err)
}

func TestUpsertJobIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := domain.Job{
		Company:     "Leidos",
		Title:       "Enterprise Architect",
		Location:    "Reston, VA",
		Description: "old description",
		URL:         "https://careers.example.com/jobs/123",
		PostedDate:  "2026-08-01",
		ScrapedAt:   time.Now().UTC(),
	}

	id1, err := UpsertJob(ctx, db.Pool, first)
	require.NoError(t, err)

	// User and scorer annotate the row between scrapes.
	require.NoError(t, UpdateMatchScore(ctx, db.Pool, id1, 88, "strong skills overlap"))
	require.NoError(t, UpdateStatus(ctx, db.Pool, id1, domain.StatusApplied, "phone screen on Friday"))

	second := first
	second.Title = "Senior Enterprise Architect"
	second.Location = "Remote"
	second.Description = "new description"
	second.ScrapedAt = first.ScrapedAt.Add(24 * time.Hour)

	id2, err := UpsertJob(ctx, db.Pool, second)
	require.NoError(t, err)
	require.Equal(t, id1, id2, "same url must map to the same row")

	var count int
	require.NoError(t, db.Pool.QueryRow(`SELECT COUNT(*) FROM jobs WHERE url = ?;`, first.URL).Scan(&count))
	require.Equal(t, 1, count)

	got, err := GetJob(ctx, db.Pool, id1)
	require.NoError(t, err)

	// Most recent scrape wins for scrapable fields.
	require.Equal(t, "Senior Enterprise Architect", got.Title)
	require.Equal(t, "Remote", got.Location)
	require.Equal(t, "new description", got.Description)

	// Annotations from before the re-scrape are preserved.
	require.NotNil(t, got.MatchScore)
	require.Equal(t, 88.0, *got.MatchScore)
	require.Equal(t, domain.StatusApplied, got.Status)
	require.Equal(t, "phone screen on Friday", got.Notes)
}

func TestUpsertJobDefaultsStatusNew(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := UpsertJob(ctx, db.Pool, domain.Job{
		Company: "SAIC",
		Title:   "Cloud Architect",
		URL:     "https://jobs.example.com/jobs/9",
	})
	require.NoError(t, err)

	got, err := GetJob(ctx, db.Pool, id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusNew, got.Status)
	require.Nil(t, got.MatchScore)
	require.Empty(t, got.Notes)
	require.False(t, got.ScrapedAt.IsZero())
}

func TestListJobsFilters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	urls := []string{"https://a.example.com/jobs/1", "https://b.example.com/jobs/2", "https://c.example.com/jobs/3"}
	for i, u := range urls {
		id, err := UpsertJob(ctx, db.Pool, domain.Job{
			Company: []string{"Leidos", "Leidos", "SAIC"}[i],
			Title:   "Architect",
			URL:     u,
		})
		require.NoError(t, err)
		require.NoError(t, UpdateMatchScore(ctx, db.Pool, id, float64(50+i*20), "r"))
	}

	min := 60.0
	jobs, err := ListJobs(ctx, db.Pool, ListJobsOpts{MinScore: &min})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	// ordered by score desc
	require.Equal(t, 90.0, *jobs[0].MatchScore)

	jobs, err = ListJobs(ctx, db.Pool, ListJobsOpts{Company: "SAIC"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	st, err := GetStats(ctx, db.Pool)
	require.NoError(t, err)
	require.Equal(t, 3, st.TotalJobs)
	require.Equal(t, 0, st.UnscoredCount)
	require.Equal(t, 2, st.ByCompany["Leidos"])
}
