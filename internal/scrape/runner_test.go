package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobhunter/internal/config"
	"jobhunter/internal/domain"
)

// boardServer serves a careers list page with n posting links and a
// detail page per posting. detailHits counts detail-page fetches.
func boardServer(t *testing.T, n int, location string) (*httptest.Server, *int32) {
	t.Helper()
	var detailHits int32

	mux := http.NewServeMux()
	mux.HandleFunc("/careers", func(w http.ResponseWriter, _ *http.Request) {
		var sb strings.Builder
		sb.WriteString("<html><body>")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb, `<a href="/jobs/%d">Opening %d</a>`, i, i)
		}
		sb.WriteString("</body></html>")
		fmt.Fprint(w, sb.String())
	})
	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&detailHits, 1)
		fmt.Fprintf(w, `<html><body>
			<h1>Engineer %s</h1>
			<div class="location">%s</div>
			<div class="job-description">%s</div>
		</body></html>`,
			strings.TrimPrefix(r.URL.Path, "/jobs/"),
			location,
			strings.Repeat("Design and run scraping pipelines. ", 5),
		)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &detailHits
}

func testRunnerConfig(sites ...config.Site) config.Config {
	return config.Config{
		// zero delays keep the tests fast; the limiter treats zero as
		// unlimited
		Scrape: config.ScrapeConfig{
			MaxLinksPerSource: 20,
			MaxJobsPerRun:     500,
		},
		Filters: config.FiltersConfig{
			RemoteKeywords: config.DefaultRemoteKeywords(),
			RegionKeywords: config.DefaultRegionKeywords(),
		},
		Sites: sites,
	}
}

func collectJobs(t *testing.T, r *Runner) []domain.Job {
	t.Helper()
	var got []domain.Job
	for job := range r.Jobs(context.Background()) {
		got = append(got, job)
	}
	return got
}

func TestRunnerYieldsParsedJobs(t *testing.T) {
	srv, _ := boardServer(t, 3, "Remote")

	cfg := testRunnerConfig(config.Site{Name: "Acme", URL: srv.URL + "/careers", Type: "generic"})
	r := NewRunner(cfg, Credentials{}, zap.NewNop())

	jobs := collectJobs(t, r)
	require.Len(t, jobs, 3)
	require.Empty(t, r.Failures())
	for _, j := range jobs {
		require.Equal(t, "Acme", j.Company)
		require.Contains(t, j.Title, "Engineer")
		require.Equal(t, "Remote", j.Location)
		require.NotEmpty(t, j.Description)
	}
}

func TestRunnerDeduplicatesAcrossSources(t *testing.T) {
	srv, detailHits := boardServer(t, 4, "Washington, DC")

	// two configured sources pointing at the same board: every posting
	// URL is fetched and yielded at most once per run
	cfg := testRunnerConfig(
		config.Site{Name: "Acme", URL: srv.URL + "/careers", Type: "generic"},
		config.Site{Name: "Acme Again", URL: srv.URL + "/careers", Type: "generic"},
	)
	r := NewRunner(cfg, Credentials{}, zap.NewNop())

	jobs := collectJobs(t, r)
	require.Len(t, jobs, 4)
	require.Equal(t, int32(4), atomic.LoadInt32(detailHits))
}

func TestRunnerSourceIsolation(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down for maintenance", http.StatusInternalServerError)
	}))
	t.Cleanup(bad.Close)
	good, _ := boardServer(t, 2, "Remote")

	cfg := testRunnerConfig(
		config.Site{Name: "Broken", URL: bad.URL + "/careers", Type: "generic"},
		config.Site{Name: "Good", URL: good.URL + "/careers", Type: "generic"},
	)
	r := NewRunner(cfg, Credentials{}, zap.NewNop())

	jobs := collectJobs(t, r)
	require.Len(t, jobs, 2)
	require.Len(t, r.Failures(), 1)
	require.Equal(t, "Broken", r.Failures()[0].Source)
}

func TestRunnerGlobalJobCap(t *testing.T) {
	srv, _ := boardServer(t, 10, "Remote")

	cfg := testRunnerConfig(config.Site{Name: "Acme", URL: srv.URL + "/careers", Type: "generic"})
	cfg.Scrape.MaxJobsPerRun = 3
	r := NewRunner(cfg, Credentials{}, zap.NewNop())

	jobs := collectJobs(t, r)
	require.Len(t, jobs, 3)
}

func TestRunnerPerSourceLinkCap(t *testing.T) {
	srv, detailHits := boardServer(t, 10, "Remote")

	cfg := testRunnerConfig(config.Site{Name: "Acme", URL: srv.URL + "/careers", Type: "generic"})
	cfg.Scrape.MaxLinksPerSource = 4
	r := NewRunner(cfg, Credentials{}, zap.NewNop())

	jobs := collectJobs(t, r)
	require.Len(t, jobs, 4)
	require.Equal(t, int32(4), atomic.LoadInt32(detailHits))
}

func TestRunnerConsumerBreakStopsFetching(t *testing.T) {
	srv, detailHits := boardServer(t, 10, "Remote")

	cfg := testRunnerConfig(config.Site{Name: "Acme", URL: srv.URL + "/careers", Type: "generic"})
	r := NewRunner(cfg, Credentials{}, zap.NewNop())

	for range r.Jobs(context.Background()) {
		break
	}
	require.Equal(t, int32(1), atomic.LoadInt32(detailHits))
}

func TestRunnerLocationFilter(t *testing.T) {
	srv, _ := boardServer(t, 3, "San Francisco, CA")

	cfg := testRunnerConfig(config.Site{Name: "Acme", URL: srv.URL + "/careers", Type: "generic"})
	r := NewRunner(cfg, Credentials{}, zap.NewNop())

	jobs := collectJobs(t, r)
	require.Empty(t, jobs)
	require.Empty(t, r.Failures())
}

func TestRunnerObserverSeesEveryYield(t *testing.T) {
	srv, _ := boardServer(t, 3, "Remote")

	cfg := testRunnerConfig(config.Site{Name: "Acme", URL: srv.URL + "/careers", Type: "generic"})
	r := NewRunner(cfg, Credentials{}, zap.NewNop())

	var seen []string
	r.OnJob(func(j domain.Job) { seen = append(seen, j.URL) })

	jobs := collectJobs(t, r)
	require.Len(t, seen, len(jobs))
}

func TestRunnerContextCancellation(t *testing.T) {
	srv, _ := boardServer(t, 5, "Remote")

	cfg := testRunnerConfig(config.Site{Name: "Acme", URL: srv.URL + "/careers", Type: "generic"})
	r := NewRunner(cfg, Credentials{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var got int
	for range r.Jobs(ctx) {
		got++
		cancel()
	}
	require.LessOrEqual(t, got, 2)
}

func TestRunnerPreflight(t *testing.T) {
	// every configured source missing its credential: refuse the run
	// before any network activity
	cfg := testRunnerConfig(config.Site{Name: "Federal", Type: "usajobs"})
	r := NewRunner(cfg, Credentials{}, zap.NewNop())
	err := r.Preflight()
	require.Error(t, err)

	var mce *MissingCredentialError
	require.ErrorAs(t, err, &mce)
	require.Equal(t, "usajobs", mce.Source)

	// one runnable source is enough
	cfg = testRunnerConfig(
		config.Site{Name: "Federal", Type: "usajobs"},
		config.Site{Name: "Acme", URL: "https://acme.example/careers", Type: "generic"},
	)
	r = NewRunner(cfg, Credentials{}, zap.NewNop())
	require.NoError(t, r.Preflight())

	cfg = testRunnerConfig()
	r = NewRunner(cfg, Credentials{}, zap.NewNop())
	require.Error(t, r.Preflight())
}

func TestRunnerUSAJobsSource(t *testing.T) {
	var gotKey string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Authorization-Key")
		fmt.Fprint(w, `{"SearchResult":{"SearchResultItems":[
			{"MatchedObjectDescriptor":{
				"PositionTitle":"IT Specialist",
				"PositionURI":"https://usajobs.example/job/123",
				"OrganizationName":"Dept of Examples",
				"PositionLocationDisplay":"Washington, DC",
				"UserArea":{"Details":{"JobSummary":"Operate and maintain example systems for the department."}}
			}}
		]}}`)
	}))
	t.Cleanup(api.Close)

	old := usaJobsEndpoint
	usaJobsEndpoint = api.URL
	t.Cleanup(func() { usaJobsEndpoint = old })

	cfg := testRunnerConfig(config.Site{Name: "Federal", Type: "usajobs"})
	cfg.SearchTerms = []string{"it specialist"}
	r := NewRunner(cfg, Credentials{USAJobsAPIKey: "test-key", USAJobsEmail: "me@example.com"}, zap.NewNop())

	jobs := collectJobs(t, r)
	require.Len(t, jobs, 1)
	require.Equal(t, "IT Specialist", jobs[0].Title)
	require.Equal(t, "Dept of Examples", jobs[0].Company)
	require.Equal(t, "test-key", gotKey)
	require.Empty(t, r.Failures())
}
