package scrape

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Substring patterns that mark an href as a posting detail page.
var jobLinkPatterns = []string{
	"/job/", "/jobs/", "/career/", "/careers/",
	"/position/", "/opening/", "/requisition",
	"jobid=", "job_id=", "job-id=", "reqid=", "req_id=",
	"jobdetail", "folderdetail", // Avature
}

// Hosts that are never posting pages even when the path looks like one.
var skipHosts = []string{
	"facebook.com", "twitter.com", "linkedin.com",
	"instagram.com", "youtube.com",
}

// Markers of search/list/auth pages that match the job patterns but are
// not individual postings.
var listPageMarkers = []string{
	"/search", "offset=", "page=", "results",
	"searchjobs", "login", "referral", "applicationmethods",
}

// LooksLikeJobURL reports whether u plausibly points at one posting.
func LooksLikeJobURL(u string) bool {
	lu := strings.ToLower(u)

	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Host)
	for _, h := range skipHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return false
		}
	}

	matched := false
	for _, p := range jobLinkPatterns {
		if strings.Contains(lu, p) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, m := range listPageMarkers {
		if strings.Contains(lu, m) {
			return false
		}
	}
	return true
}

// CanonicalURL normalizes a posting URL into its dedup identity:
// lowercased scheme/host, fragment dropped, tracking params stripped,
// deterministic query order.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" || lk == "mkt_tok" {
			q.Del(k)
		}
	}
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// CollectJobLinks walks every anchor in doc, resolves it against base,
// keeps the ones that look like posting pages and returns up to limit
// canonical URLs in discovery order, deduped within the page.
func CollectJobLinks(doc *goquery.Document, base *url.URL, limit int) []string {
	var out []string
	seen := map[string]bool{}

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		abs := base.ResolveReference(ref).String()

		if !LooksLikeJobURL(abs) {
			return true
		}

		canon := CanonicalURL(abs)
		if seen[canon] {
			return true
		}
		seen[canon] = true
		out = append(out, canon)

		return limit <= 0 || len(out) < limit
	})

	return out
}
