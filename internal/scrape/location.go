package scrape

import "strings"

// LocationFilter classifies a free-text location as eligible for the
// configured metro area or remote work. Pure function; no side effects.
type LocationFilter struct {
	remote []string
	region []string
}

func NewLocationFilter(remote, region []string) *LocationFilter {
	lower := func(xs []string) []string {
		ys := make([]string, 0, len(xs))
		for _, x := range xs {
			x = strings.ToLower(strings.TrimSpace(x))
			if x != "" {
				ys = append(ys, x)
			}
		}
		return ys
	}
	return &LocationFilter{remote: lower(remote), region: lower(region)}
}

// Eligible applies the policy in order: missing location is kept (the
// scorer can still penalize it), then remote indicators, then region
// keywords. Everything else is out.
func (f *LocationFilter) Eligible(location string) bool {
	location = strings.TrimSpace(location)
	if location == "" {
		return true
	}

	low := strings.ToLower(location)

	for _, kw := range f.remote {
		if strings.Contains(low, kw) {
			return true
		}
	}
	for _, kw := range f.region {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}
