package scrape

import "strings"

// RuleSet is the ordered extraction rules for one ATS flavor. Each list
// is tried first-match-wins, so more specific selectors go first and
// the generic fallbacks close every list. Adding support for a new ATS
// means adding one entry to ruleSets, not new control flow.
type RuleSet struct {
	JobLink     []string
	Title       []string
	Location    []string
	Description []string
}

var ruleSets = map[string]RuleSet{
	"workday": {
		JobLink:     []string{`[data-automation-id="jobResults"] a`, `a[href*="/job/"]`},
		Title:       []string{`h1`, `h2`, `.job-title`, `[class*="title"]`},
		Location:    []string{`[data-automation-id="locations"]`, `[class*="location"]`},
		Description: []string{`[data-automation-id="jobPostingDescription"]`, `[class*="description"]`, `article`, `main`},
	},
	"icims": {
		JobLink:     []string{`.iCIMS_JobsTable a`, `a[href*="jobs-"]`, `.jobs-list a`},
		Title:       []string{`.iCIMS_Header h1`, `h1`, `h2`, `.job-title`},
		Location:    []string{`.iCIMS_JobHeaderLocation`, `.job-location`, `[class*="location"]`},
		Description: []string{`.iCIMS_JobContent`, `.job-description`, `[class*="description"]`, `article`},
	},
	"avature": {
		JobLink:     []string{`a[href*="FolderDetail"]`},
		Title:       []string{`h2`, `.title`, `h1`},
		Location:    []string{`[class*="location"]`, `[class*="Location"]`},
		Description: []string{`[class*="description"]`, `.content`, `article`, `main`},
	},
	"greenhouse": {
		JobLink:     []string{`a[href*="/jobs/"]`},
		Title:       []string{`.app-title`, `h1`},
		Location:    []string{`.location`, `[class*="location"]`},
		Description: []string{`#content`, `[class*="description"]`, `article`, `main`},
	},
	"lever": {
		JobLink:     []string{`a.posting-title`, `a[href*="/jobs/"]`},
		Title:       []string{`.posting-headline h2`, `h1`, `h2`},
		Location:    []string{`.posting-categories .location`, `[class*="location"]`},
		Description: []string{`.section-wrapper .section`, `[class*="description"]`, `article`, `main`},
	},
	"generic": {
		JobLink:     []string{`a[href*="/job"]`, `a[href*="/career"]`, `a[href*="/position"]`, `a[href*="requisition"]`},
		Title:       []string{`h1`, `.job-title`, `.position-title`, `[class*="title"]`},
		Location:    []string{`.location`, `[class*="location"]`, `[class*="Location"]`},
		Description: []string{`.job-description`, `.description`, `[class*="description"]`, `article`, `main`},
	},
}

// renderedTypes need a scriptable browser: these ATSes build the page
// client-side and serve an empty shell to plain HTTP.
var renderedTypes = map[string]bool{
	"workday":    true,
	"icims":      true,
	"avature":    true,
	"greenhouse": true,
	"lever":      true,
}

// Strategy is the (fetcher variant, rule set) pair chosen for a source.
type Strategy struct {
	Rules    RuleSet
	Rendered bool
	// Degraded marks a rendered-type source forced onto the static
	// fetcher because no browser is available. Reduced success rate,
	// but never a run failure.
	Degraded bool
}

// StrategyFor maps a source's declared type to its strategy. Unknown
// types get the generic rule set and the static fetcher.
func StrategyFor(typeTag string, browserOK bool) Strategy {
	t := strings.ToLower(strings.TrimSpace(typeTag))

	rules, known := ruleSets[t]
	if !known {
		rules = ruleSets["generic"]
	}

	if renderedTypes[t] {
		if browserOK {
			return Strategy{Rules: rules, Rendered: true}
		}
		return Strategy{Rules: rules, Degraded: true}
	}
	return Strategy{Rules: rules}
}
