package scrape

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"jobhunter/internal/domain"
)

// usaJobsEndpoint is the public USAJobs search API. Overridable in
// tests.
var usaJobsEndpoint = "https://data.usajobs.gov/api/search"

// USAJobsSource queries the federal job API directly: no markup, no
// detail fetches, one JSON call per search term.
type USAJobsSource struct {
	f      *Fetcher
	apiKey string
	email  string
}

// NewUSAJobsSource returns a MissingCredentialError when the API key or
// registered email is absent, before any network activity.
func NewUSAJobsSource(f *Fetcher, apiKey, email string) (*USAJobsSource, error) {
	if apiKey == "" || email == "" {
		return nil, &MissingCredentialError{
			Source: "usajobs",
			Key:    "USAJOBS_API_KEY / USAJOBS_EMAIL",
			Hint:   "request a key at https://developer.usajobs.gov/ and store both via `jobhunter secret set`",
		}
	}
	return &USAJobsSource{f: f, apiKey: apiKey, email: email}, nil
}

type usaJobsResponse struct {
	SearchResult struct {
		SearchResultItems []struct {
			MatchedObjectDescriptor struct {
				PositionTitle           string `json:"PositionTitle"`
				PositionLocationDisplay string `json:"PositionLocationDisplay"`
				PositionURI             string `json:"PositionURI"`
				PublicationStartDate    string `json:"PublicationStartDate"`
				OrganizationName        string `json:"OrganizationName"`
				UserArea                struct {
					Details struct {
						JobSummary string `json:"JobSummary"`
					} `json:"Details"`
				} `json:"UserArea"`
			} `json:"MatchedObjectDescriptor"`
		} `json:"SearchResultItems"`
	} `json:"SearchResult"`
}

// Search runs one keyword query and maps the results to Job records.
func (s *USAJobsSource) Search(ctx context.Context, keyword, location string) ([]domain.Job, error) {
	params := url.Values{}
	params.Set("Keyword", keyword)
	params.Set("ResultsPerPage", "50")
	if location != "" {
		params.Set("LocationName", location)
	}

	header := http.Header{}
	header.Set("Authorization-Key", s.apiKey)
	// USAJobs wants the registered email as the user agent.
	header.Set("User-Agent", s.email)

	var resp usaJobsResponse
	if err := s.f.JSON(ctx, usaJobsEndpoint, params, header, &resp); err != nil {
		return nil, err
	}

	jobs := make([]domain.Job, 0, len(resp.SearchResult.SearchResultItems))
	for _, item := range resp.SearchResult.SearchResultItems {
		d := item.MatchedObjectDescriptor
		if d.PositionTitle == "" || d.PositionURI == "" {
			continue
		}
		company := d.OrganizationName
		if company == "" {
			company = "US Federal Government"
		}
		jobs = append(jobs, domain.Job{
			Company:     company,
			Title:       CleanText(d.PositionTitle),
			Location:    CleanText(d.PositionLocationDisplay),
			Description: Truncate(d.UserArea.Details.JobSummary, maxDescriptionLen),
			URL:         CanonicalURL(d.PositionURI),
			PostedDate:  d.PublicationStartDate,
			ScrapedAt:   time.Now().UTC(),
		})
	}
	return jobs, nil
}
