package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v Validation) OK() bool { return len(v.Errors) == 0 }

// knownSiteTypes are the type tags the strategy table understands.
// Anything else degrades to the generic strategy, which is legal but
// worth a warning since it is usually a typo.
var knownSiteTypes = map[string]bool{
	"workday":      true,
	"icims":        true,
	"avature":      true,
	"greenhouse":   true,
	"lever":        true,
	"usajobs":      true,
	"googlesearch": true,
	"email":        true,
	"generic":      true,
	"custom":       true,
}

// NormalizeAndValidate trims list entries, fills defaults and reports
// anything that would make a run misbehave.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.RemoteKeywords = trimList(out.Filters.RemoteKeywords)
	out.Filters.RegionKeywords = trimList(out.Filters.RegionKeywords)
	out.SearchTerms = trimList(out.SearchTerms)

	ApplyDefaults(&out)

	if out.Scrape.RequestDelaySeconds < 0 {
		res.addErr("scrape.request_delay_seconds must be >= 0")
	}
	if out.Scrape.SourceDelaySeconds < 0 {
		res.addErr("scrape.source_delay_seconds must be >= 0")
	}
	if out.Scrape.MaxLinksPerSource < 0 {
		res.addErr("scrape.max_links_per_source must be >= 0")
	}
	if out.Scrape.MaxJobsPerRun < 0 {
		res.addErr("scrape.max_jobs_per_run must be >= 0")
	}
	if out.Scrape.RequestDelaySeconds < 1 {
		res.addWarn("scrape.request_delay_seconds is below 1s; upstream sites may throttle or block you.")
	}

	if len(out.Sites) == 0 {
		res.addWarn("no sites configured; a scrape run will do nothing.")
	}

	for i, s := range out.Sites {
		if strings.TrimSpace(s.Name) == "" {
			res.addErr("sites[%d]: name is required", i)
		}
		typ := strings.ToLower(strings.TrimSpace(s.Type))
		if typ != "" && !knownSiteTypes[typ] {
			res.addWarn("sites[%d] (%s): unknown type %q, will use the generic strategy", i, s.Name, s.Type)
		}
		switch typ {
		case "usajobs", "googlesearch", "email":
			// entry URL optional; these are query/API driven
		default:
			if strings.TrimSpace(s.URL) == "" {
				res.addErr("sites[%d] (%s): url is required for type %q", i, s.Name, s.Type)
			}
		}
	}

	hasQuerySource := false
	for _, s := range out.Sites {
		t := strings.ToLower(strings.TrimSpace(s.Type))
		if t == "usajobs" || t == "googlesearch" {
			hasQuerySource = true
		}
	}
	if hasQuerySource && len(out.SearchTerms) == 0 {
		res.addWarn("a query-driven source is configured but search_terms is empty; it will be skipped.")
	}

	if out.Email.Enabled {
		if out.Email.IMAPHost == "" {
			res.addErr("email.imap_host is required when email is enabled")
		}
		if out.Email.Username == "" {
			res.addErr("email.username is required when email is enabled")
		}
	}

	return out, res
}
