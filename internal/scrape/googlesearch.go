package scrape

import (
	"context"
	"fmt"
	"net/url"
)

// googleSearchEndpoint is the Custom Search JSON API. Overridable in
// tests.
var googleSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleSearchSource finds posting links through the Custom Search API
// instead of crawling a career page. Results are candidate links only;
// the orchestrator still fetches each one for details.
type GoogleSearchSource struct {
	f        *Fetcher
	apiKey   string
	engineID string
}

func NewGoogleSearchSource(f *Fetcher, apiKey, engineID string) (*GoogleSearchSource, error) {
	if apiKey == "" || engineID == "" {
		return nil, &MissingCredentialError{
			Source: "googlesearch",
			Key:    "GOOGLE_SEARCH_API_KEY / GOOGLE_SEARCH_CX",
			Hint:   "create a Custom Search engine and store both values via `jobhunter secret set`",
		}
	}
	return &GoogleSearchSource{f: f, apiKey: apiKey, engineID: engineID}, nil
}

type googleSearchResponse struct {
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"items"`
}

// Search returns candidate posting links for the query, optionally
// scoped to one site (site:<host> prefix).
func (s *GoogleSearchSource) Search(ctx context.Context, query, site string) ([]string, error) {
	if site != "" {
		query = fmt.Sprintf("site:%s %s", site, query)
	}

	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("cx", s.engineID)
	params.Set("q", query)
	params.Set("num", "10")

	var resp googleSearchResponse
	if err := s.f.JSON(ctx, googleSearchEndpoint, params, nil, &resp); err != nil {
		return nil, err
	}

	links := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link == "" {
			continue
		}
		links = append(links, CanonicalURL(item.Link))
	}
	return links, nil
}
