package scrape

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"jobhunter/internal/config"
	"jobhunter/internal/domain"
	"jobhunter/internal/scrape/emailalerts"
)

// Credentials are resolved by the caller (env/keyring) before a run so
// the pipeline itself never touches secret storage.
type Credentials struct {
	GoogleAPIKey   string
	GoogleEngineID string
	USAJobsAPIKey  string
	USAJobsEmail   string
	IMAPPassword   string
}

// SourceFailure records one source that was skipped without aborting
// the run.
type SourceFailure struct {
	Source string
	Err    error
}

// Runner drives the whole pipeline: sources in configuration order,
// candidate links in discovery order, one at a time. It has no internal
// concurrency; hosts that must not block on it run the whole thing on a
// dedicated worker.
type Runner struct {
	cfg      config.Config
	creds    Credentials
	limiter  *HostLimiter
	fetch    *Fetcher
	filter   *LocationFilter
	log      *zap.Logger
	observer func(domain.Job)

	browser      *Browser
	browserTried bool

	failures []SourceFailure
	degraded []string
}

func NewRunner(cfg config.Config, creds Credentials, log *zap.Logger) *Runner {
	limiter := NewHostLimiter(time.Duration(cfg.Scrape.RequestDelaySeconds * float64(time.Second)))
	return &Runner{
		cfg:     cfg,
		creds:   creds,
		limiter: limiter,
		fetch:   NewFetcher(limiter, cfg.Scrape.UserAgent),
		filter:  NewLocationFilter(cfg.Filters.RemoteKeywords, cfg.Filters.RegionKeywords),
		log:     log,
	}
}

// OnJob registers a progress observer invoked for every yielded record.
func (r *Runner) OnJob(fn func(domain.Job)) { r.observer = fn }

// Failures lists the sources skipped during the last run.
func (r *Runner) Failures() []SourceFailure { return r.failures }

// Degraded lists rendered-type sources that had to fall back to the
// static fetcher because no browser was available.
func (r *Runner) Degraded() []string { return r.degraded }

// Preflight rejects a run that could do no work at all: every
// configured source missing its credential. Individual missing
// credentials only skip their own source.
func (r *Runner) Preflight() error {
	if len(r.cfg.Sites) == 0 {
		return fmt.Errorf("no sites configured")
	}

	var firstErr error
	for _, site := range r.cfg.Sites {
		if err := r.credentialCheck(site); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return nil // at least one source can run
	}
	return fmt.Errorf("no source can run: %w", firstErr)
}

func (r *Runner) credentialCheck(site config.Site) error {
	switch strings.ToLower(strings.TrimSpace(site.Type)) {
	case "usajobs":
		_, err := NewUSAJobsSource(r.fetch, r.creds.USAJobsAPIKey, r.creds.USAJobsEmail)
		return err
	case "googlesearch":
		_, err := NewGoogleSearchSource(r.fetch, r.creds.GoogleAPIKey, r.creds.GoogleEngineID)
		return err
	case "email":
		if r.creds.IMAPPassword == "" {
			return &MissingCredentialError{
				Source: "email",
				Key:    "IMAP_PASSWORD",
				Hint:   "store the mailbox password via `jobhunter secret set IMAP_PASSWORD`",
			}
		}
		return nil
	default:
		return nil
	}
}

// runState is the per-run bookkeeping: the within-run seen set and the
// global yield counter. Touched only by the single orchestrating
// goroutine.
type runState struct {
	seen    map[string]bool
	yield   func(domain.Job) bool
	count   int
	max     int
	stopped bool
}

// markSeen returns false when the canonical URL was already observed
// this run; each distinct URL is fetched and yielded at most once.
func (s *runState) markSeen(canon string) bool {
	if s.seen[canon] {
		return false
	}
	s.seen[canon] = true
	return true
}

func (s *runState) emit(j domain.Job, observer func(domain.Job)) bool {
	if s.stopped {
		return false
	}
	if observer != nil {
		observer(j)
	}
	s.count++
	if !s.yield(j) {
		s.stopped = true
		return false
	}
	if s.max > 0 && s.count >= s.max {
		s.stopped = true
		return false
	}
	return true
}

// Jobs returns the run as a lazy, finite, one-shot sequence. Ranging
// over it again re-scrapes from scratch; there is no persisted cursor.
// The browsing session, if one was opened, is released on every exit
// path, including an early break by the consumer.
func (r *Runner) Jobs(ctx context.Context) iter.Seq[domain.Job] {
	return func(yield func(domain.Job) bool) {
		defer r.closeBrowser()

		r.failures = nil
		r.degraded = nil

		run := &runState{
			seen:  make(map[string]bool),
			yield: yield,
			max:   r.cfg.Scrape.MaxJobsPerRun,
		}

		for i, site := range r.cfg.Sites {
			if i > 0 && !r.pause(ctx) {
				return
			}
			if run.stopped || ctx.Err() != nil {
				return
			}

			r.log.Info("scraping source",
				zap.String("source", site.Name),
				zap.String("type", site.Type),
			)

			if err := r.scrapeSite(ctx, site, run); err != nil {
				r.failures = append(r.failures, SourceFailure{Source: site.Name, Err: err})
				r.log.Warn("source failed, moving on",
					zap.String("source", site.Name),
					zap.Error(err),
				)
			}
			if run.stopped {
				r.log.Info("job cap reached, stopping run", zap.Int("yielded", run.count))
				return
			}
		}
	}
}

func (r *Runner) scrapeSite(ctx context.Context, site config.Site, run *runState) error {
	switch strings.ToLower(strings.TrimSpace(site.Type)) {
	case "usajobs":
		return r.scrapeUSAJobs(ctx, site, run)
	case "googlesearch":
		return r.scrapeGoogleSearch(ctx, site, run)
	case "email":
		return r.scrapeEmail(ctx, site, run)
	default:
		return r.scrapeBoard(ctx, site, run)
	}
}

// scrapeBoard handles every markup-driven source: rendered ATS boards
// and plain static career pages share the list → links → detail flow.
func (r *Runner) scrapeBoard(ctx context.Context, site config.Site, run *runState) error {
	strategy := r.resolveStrategy(site)

	doc, err := r.loadPage(ctx, site.URL, strategy, &site.Search)
	if err != nil {
		return err
	}

	base, err := url.Parse(site.URL)
	if err != nil {
		return fmt.Errorf("bad site url %q: %w", site.URL, err)
	}

	links := CollectJobLinks(doc, base, r.cfg.Scrape.MaxLinksPerSource)
	r.log.Info("candidate links found",
		zap.String("source", site.Name),
		zap.Int("count", len(links)),
	)

	company := site.Name
	for _, link := range links {
		if run.stopped {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !run.markSeen(link) {
			continue
		}
		if !r.handleCandidate(ctx, link, company, strategy, site.Name, run) {
			return nil
		}
	}
	return nil
}

func (r *Runner) scrapeUSAJobs(ctx context.Context, site config.Site, run *runState) error {
	src, err := NewUSAJobsSource(r.fetch, r.creds.USAJobsAPIKey, r.creds.USAJobsEmail)
	if err != nil {
		return err
	}

	for _, term := range r.searchTerms(site) {
		if run.stopped || ctx.Err() != nil {
			return ctx.Err()
		}

		jobs, err := src.Search(ctx, term, site.Search.Location)
		if err != nil {
			r.log.Warn("usajobs query failed, skipping term",
				zap.String("term", term), zap.Error(err))
			continue
		}

		for _, job := range jobs {
			if !run.markSeen(job.URL) {
				continue
			}
			if !r.filter.Eligible(job.Location) {
				r.logSkip(site.Name, job)
				continue
			}
			if !run.emit(job, r.observer) {
				return nil
			}
		}

		if !r.pause(ctx) {
			return ctx.Err()
		}
	}
	return nil
}

func (r *Runner) scrapeGoogleSearch(ctx context.Context, site config.Site, run *runState) error {
	src, err := NewGoogleSearchSource(r.fetch, r.creds.GoogleAPIKey, r.creds.GoogleEngineID)
	if err != nil {
		return err
	}

	scope := hostOf(site.URL)
	generic := StrategyFor("generic", false)

	for _, term := range r.searchTerms(site) {
		if run.stopped || ctx.Err() != nil {
			return ctx.Err()
		}

		links, err := src.Search(ctx, term, scope)
		if err != nil {
			r.log.Warn("search query failed, skipping term",
				zap.String("term", term), zap.Error(err))
			continue
		}

		for _, link := range links {
			if run.stopped {
				return nil
			}
			if !LooksLikeJobURL(link) || !run.markSeen(link) {
				continue
			}
			company := site.Name
			if company == "" {
				company = hostOf(link)
			}
			if !r.handleCandidate(ctx, link, company, generic, site.Name, run) {
				return nil
			}
		}

		if !r.pause(ctx) {
			return ctx.Err()
		}
	}
	return nil
}

func (r *Runner) scrapeEmail(ctx context.Context, site config.Site, run *runState) error {
	ec := r.cfg.Email
	if !ec.Enabled {
		return fmt.Errorf("email source configured but email.enabled is false")
	}
	if r.creds.IMAPPassword == "" {
		return &MissingCredentialError{
			Source: "email",
			Key:    "IMAP_PASSWORD",
			Hint:   "store the mailbox password via `jobhunter secret set IMAP_PASSWORD`",
		}
	}

	links, err := emailalerts.FetchLinks(ctx, emailalerts.Config{
		Addr:        ec.IMAPHost,
		Username:    ec.Username,
		Password:    r.creds.IMAPPassword,
		Mailbox:     ec.Mailbox,
		MaxMessages: ec.MaxMessages,
	})
	if err != nil {
		return err
	}

	generic := StrategyFor("generic", false)
	handled := 0
	for _, raw := range links {
		if run.stopped {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		link := CanonicalURL(raw)
		if !LooksLikeJobURL(link) || !run.markSeen(link) {
			continue
		}
		if !r.handleCandidate(ctx, link, hostOf(link), generic, site.Name, run) {
			return nil
		}
		handled++
		if max := r.cfg.Scrape.MaxLinksPerSource; max > 0 && handled >= max {
			return nil
		}
	}
	return nil
}

// handleCandidate fetches one detail page, parses it and, when it
// passes the location filter, yields it. Returns false only when the
// run must stop (consumer break or global cap); a bad page is just
// skipped.
func (r *Runner) handleCandidate(ctx context.Context, link, company string, strategy Strategy, source string, run *runState) bool {
	doc, err := r.loadPage(ctx, link, strategy, nil)
	if err != nil {
		r.log.Debug("page fetch failed, skipping",
			zap.String("url", link), zap.Error(err))
		return true
	}

	job, ok := ParseJobPage(doc, link, company, strategy.Rules)
	if !ok {
		// no resolvable title: nothing to record
		return true
	}

	if !r.filter.Eligible(job.Location) {
		r.logSkip(source, job)
		return true
	}

	return run.emit(job, r.observer)
}

// loadPage retrieves one URL via the strategy's fetcher variant and
// returns parsed markup. search is non-nil only for entry pages that
// may carry a search form.
func (r *Runner) loadPage(ctx context.Context, rawURL string, strategy Strategy, search *config.SearchParams) (*goquery.Document, error) {
	if !strategy.Rendered {
		return r.fetch.Document(ctx, rawURL)
	}

	if err := r.limiter.WaitURL(ctx, rawURL); err != nil {
		return nil, err
	}
	if err := r.browser.Load(rawURL); err != nil {
		return nil, err
	}
	if search != nil && (search.Keywords != "" || search.Location != "") {
		r.browser.ApplySearch(*search)
	}
	return r.browser.Document()
}

// resolveStrategy picks the strategy for a source, opening the shared
// browsing session on first need. A missing browser degrades rendered
// sources to static fetching instead of failing the run.
func (r *Runner) resolveStrategy(site config.Site) Strategy {
	strategy := StrategyFor(site.Type, true)
	if !strategy.Rendered {
		return strategy
	}

	if !r.browserTried {
		r.browserTried = true
		settle := time.Duration(r.cfg.Scrape.SettleMillis) * time.Millisecond
		b, err := OpenBrowser(r.cfg.Scrape.UserAgent, settle)
		if err != nil {
			r.log.Warn("browser unavailable; rendered sources degrade to static fetch",
				zap.Error(err))
		}
		r.browser = b
	}

	if r.browser == nil {
		strategy = StrategyFor(site.Type, false)
		r.degraded = append(r.degraded, site.Name)
		r.log.Warn("scraping rendered site without a browser; expect reduced results",
			zap.String("source", site.Name))
	}
	return strategy
}

func (r *Runner) closeBrowser() {
	if r.browser != nil {
		r.browser.Close()
		r.browser = nil
	}
	r.browserTried = false
}

// pause is the politeness delay between distinct sources/searches,
// layered on top of the per-host limiter.
func (r *Runner) pause(ctx context.Context) bool {
	d := time.Duration(r.cfg.Scrape.SourceDelaySeconds * float64(time.Second))
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (r *Runner) searchTerms(site config.Site) []string {
	if site.Search.Keywords != "" {
		return []string{site.Search.Keywords}
	}
	return r.cfg.SearchTerms
}

func (r *Runner) logSkip(source string, job domain.Job) {
	r.log.Info("skipped by location filter",
		zap.String("source", source),
		zap.String("title", job.Title),
		zap.String("location", job.Location),
	)
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
