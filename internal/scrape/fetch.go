package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher is the static retrieval mode: plain HTTP with a realistic
// client identity, rate-limited per destination host. Failures are
// reported, never retried here; the orchestrator decides what a failed
// page means.
type Fetcher struct {
	hc        *http.Client
	limiter   *HostLimiter
	userAgent string
}

func NewFetcher(limiter *HostLimiter, userAgent string) *Fetcher {
	return &Fetcher{
		hc:        &http.Client{Timeout: 30 * time.Second},
		limiter:   limiter,
		userAgent: userAgent,
	}
}

func (f *Fetcher) get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	if err := f.limiter.WaitURL(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, fmt.Errorf("get %s: status %d", rawURL, res.StatusCode)
	}
	return res, nil
}

// Document fetches rawURL and parses it as HTML.
func (f *Fetcher) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	res, err := f.get(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}

// JSON fetches rawURL (with optional query params and extra headers)
// and decodes the body into v.
func (f *Fetcher) JSON(ctx context.Context, rawURL string, params url.Values, header http.Header, v any) error {
	if len(params) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return err
		}
		q := u.Query()
		for k, vs := range params {
			for _, val := range vs {
				q.Add(k, val)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	res, err := f.get(ctx, rawURL, header)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}
