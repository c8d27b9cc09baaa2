package scrape

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"jobhunter/internal/domain"
)

// Plausibility thresholds for extracted fields. Titles shorter than
// minTitleLen are navigation chrome, not job titles; descriptions below
// minDescriptionLen are usually a stray label.
const (
	minTitleLen       = 4
	minDescriptionLen = 50
	maxDescriptionLen = 5000
)

// CleanText collapses whitespace and non-breaking spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// Truncate caps s at n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// firstMatch runs the selector list in order and returns the text of
// the first element whose cleaned text meets minLen. High-specificity
// selectors come first in every rule set; generic fallbacks last.
func firstMatch(doc *goquery.Document, selectors []string, minLen int) string {
	for _, sel := range selectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		t := CleanText(s.Text())
		if utf8.RuneCountInString(t) >= minLen {
			return t
		}
	}
	return ""
}

// ParseJobPage extracts a Job record from a posting page using the rule
// set for its ATS. A page without a resolvable title produces no record;
// that is a valid "no job here" outcome, not an error.
func ParseJobPage(doc *goquery.Document, pageURL, company string, rules RuleSet) (domain.Job, bool) {
	title := firstMatch(doc, rules.Title, minTitleLen)
	if title == "" {
		return domain.Job{}, false
	}

	location := firstMatch(doc, rules.Location, 1)
	description := firstMatch(doc, rules.Description, minDescriptionLen)

	return domain.Job{
		Company:     company,
		Title:       title,
		Location:    location,
		Description: Truncate(description, maxDescriptionLen),
		URL:         pageURL,
		ScrapedAt:   time.Now().UTC(),
	}, true
}
