package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobhunter/internal/domain"
	"jobhunter/internal/engine"
	"jobhunter/internal/events"
	"jobhunter/internal/score"
	"jobhunter/internal/store"
	"jobhunter/internal/task"
)

func testDeps(t *testing.T) (Deps, *store.DB) {
	t.Helper()
	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	return Deps{
		DB:    db.Pool,
		Log:   zap.NewNop(),
		Hub:   events.NewHub(),
		Tasks: task.NewRegistry(),
	}, db
}

func seedJobs(t *testing.T, db *store.DB, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, err := store.UpsertJob(context.Background(), db.Pool, domain.Job{
			Company: "Acme",
			Title:   fmt.Sprintf("Engineer %d", i),
			URL:     fmt.Sprintf("https://acme.example/jobs/%d", i),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestHealth(t *testing.T) {
	deps, _ := testDeps(t)
	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestJobsListAndGet(t *testing.T) {
	deps, db := testDeps(t)
	ids := seedJobs(t, db, 3)

	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/jobs")
	require.NoError(t, err)
	defer resp.Body.Close()

	var jobs []domain.Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&jobs))
	require.Len(t, jobs, 3)

	one, err := http.Get(fmt.Sprintf("%s/jobs/%d", srv.URL, ids[0]))
	require.NoError(t, err)
	defer one.Body.Close()
	require.Equal(t, http.StatusOK, one.StatusCode)

	missing, err := http.Get(srv.URL + "/jobs/99999")
	require.NoError(t, err)
	defer missing.Body.Close()
	require.Equal(t, http.StatusNotFound, missing.StatusCode)

	bad, err := http.Get(srv.URL + "/jobs/abc")
	require.NoError(t, err)
	defer bad.Body.Close()
	require.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestJobsListRejectsBadFilters(t *testing.T) {
	deps, _ := testDeps(t)
	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	for _, q := range []string{"?status=bogus", "?min_score=abc", "?limit=-1"} {
		resp, err := http.Get(srv.URL + "/jobs" + q)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "query %s", q)
	}
}

func TestUpdateJobStatus(t *testing.T) {
	deps, db := testDeps(t)
	ids := seedJobs(t, db, 1)

	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	body := bytes.NewBufferString(`{"status":"applied","notes":"sent cover letter"}`)
	resp, err := http.Post(fmt.Sprintf("%s/jobs/%d/status", srv.URL, ids[0]), "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	job, err := store.GetJob(context.Background(), db.Pool, ids[0])
	require.NoError(t, err)
	require.Equal(t, domain.StatusApplied, job.Status)
	require.Equal(t, "sent cover letter", job.Notes)

	bad, err := http.Post(fmt.Sprintf("%s/jobs/%d/status", srv.URL, ids[0]),
		"application/json", bytes.NewBufferString(`{"status":"nonsense"}`))
	require.NoError(t, err)
	defer bad.Body.Close()
	require.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestScrapeRunConflictAndCompletion(t *testing.T) {
	deps, _ := testDeps(t)

	release := make(chan struct{})
	deps.RunScrape = func(ctx context.Context, onJob func(domain.Job)) (engine.ScrapeReport, error) {
		onJob(domain.Job{Title: "Engineer"})
		<-release
		return engine.ScrapeReport{Found: 1, Saved: 1}, nil
	}

	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/scrape/run", "application/json", nil)
	require.NoError(t, err)
	var started struct {
		TaskID string `json:"task_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&started))
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.NotEmpty(t, started.TaskID)

	// second run while the first is in flight
	conflict, err := http.Post(srv.URL+"/scrape/run", "application/json", nil)
	require.NoError(t, err)
	conflict.Body.Close()
	require.Equal(t, http.StatusConflict, conflict.StatusCode)

	close(release)

	require.Eventually(t, func() bool {
		got, ok := deps.Tasks.Get(started.TaskID)
		return ok && got.State == task.StateDone
	}, 2*time.Second, 10*time.Millisecond)

	status, err := http.Get(srv.URL + "/scrape/status")
	require.NoError(t, err)
	defer status.Body.Close()
	var latest task.Task
	require.NoError(t, json.NewDecoder(status.Body).Decode(&latest))
	require.Equal(t, started.TaskID, latest.ID)
	require.Equal(t, task.StateDone, latest.State)
}

func TestScrapeStatusNeverRun(t *testing.T) {
	deps, _ := testDeps(t)
	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/scrape/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "never_run", body["state"])
}

func TestScoreRunFailureRecorded(t *testing.T) {
	deps, _ := testDeps(t)
	deps.RunScore = func(ctx context.Context) (score.Summary, error) {
		return score.Summary{}, fmt.Errorf("no api key")
	}

	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/score/run", "application/json", nil)
	require.NoError(t, err)
	var started struct {
		TaskID string `json:"task_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&started))
	resp.Body.Close()

	require.Eventually(t, func() bool {
		got, ok := deps.Tasks.Get(started.TaskID)
		return ok && got.State == task.StateFailed && got.Error == "no api key"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTasksEndpoints(t *testing.T) {
	deps, _ := testDeps(t)
	id := deps.Tasks.Create("scrape")
	deps.Tasks.Complete(id, nil)

	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/tasks/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	missing, err := http.Get(srv.URL + "/tasks/unknown")
	require.NoError(t, err)
	defer missing.Body.Close()
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestStats(t *testing.T) {
	deps, db := testDeps(t)
	seedJobs(t, db, 2)

	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var st store.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	require.Equal(t, 2, st.TotalJobs)
}

func TestErrorEnvelope(t *testing.T) {
	deps, _ := testDeps(t)
	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/jobs/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "bad_id", body.Error.Code)
	require.NotEmpty(t, body.Error.Message)
	require.Equal(t, resp.Header.Get("X-Request-ID"), body.Error.RequestID)
}

func TestEventStream(t *testing.T) {
	deps, _ := testDeps(t)
	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rd := bufio.NewReader(resp.Body)
	first := readSSEData(t, rd)
	require.Contains(t, first, `"type":"connected"`)

	deps.Hub.Publish(events.MakeEvent("req-42", "job_saved", 1, map[string]any{"id": 7}))
	second := readSSEData(t, rd)
	require.Contains(t, second, `"type":"job_saved"`)
	require.Contains(t, second, `"request_id":"req-42"`)
}

func readSSEData(t *testing.T, rd *bufio.Reader) string {
	t.Helper()
	for {
		line, err := rd.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			return strings.TrimSuffix(strings.TrimPrefix(line, "data: "), "\n")
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	deps, _ := testDeps(t)
	srv := httptest.NewServer(Handler(deps))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/jobs", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
