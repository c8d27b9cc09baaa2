package httpapi

import "net/http"

// NewMux wires every handler. Middleware (request id, recover, access
// log) is applied by Handler, not here, so tests can hit the bare mux.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Get,
	}))

	jh := JobsHandler{DB: d.DB, Hub: d.Hub}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  jh.GetByPath,
		http.MethodPost: jh.UpdateStatusByPath, // /jobs/{id}/status
	}))

	sth := StatsHandler{DB: d.DB}
	mux.HandleFunc("/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sth.Get,
	}))

	sch := ScrapeHandler{
		Tasks:     d.Tasks,
		Hub:       d.Hub,
		Log:       d.Log,
		RunScrape: d.RunScrape,
		RunScore:  d.RunScore,
	}
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Start,
	}))
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))
	mux.HandleFunc("/score/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.StartScore,
	}))

	th := TasksHandler{Tasks: d.Tasks}
	mux.HandleFunc("/tasks", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: th.List,
	}))
	mux.HandleFunc("/tasks/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: th.GetByPath,
	}))

	ch := ConfigHandler{Cfg: d.Cfg}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}

// Handler is NewMux wrapped in the standard middleware chain.
func Handler(d Deps) http.Handler {
	return Chain(NewMux(d), RequestID, Recover(d.Log), AccessLog(d.Log))
}
