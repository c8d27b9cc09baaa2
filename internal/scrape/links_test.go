package scrape

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeJobURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://acme.example/jobs/1234/senior-engineer", true},
		{"https://boards.example/job/abc?jobid=55", true},
		{"https://careers.example/requisition/R-100", true},
		{"https://acme.avature.net/careers/FolderDetail/9981", true},
		// list/search pages share the patterns but are not postings
		{"https://acme.example/jobs/search?q=engineer", false},
		{"https://acme.example/jobs?page=2", false},
		{"https://acme.example/careers/results", false},
		{"https://acme.example/jobs/login", false},
		// social links never count even with job-ish paths
		{"https://www.linkedin.com/jobs/view/999", false},
		{"https://twitter.com/acme/jobs", false},
		// no pattern at all
		{"https://acme.example/about", false},
		{"https://acme.example/", false},
	}

	for _, tc := range cases {
		require.Equalf(t, tc.want, LooksLikeJobURL(tc.url), "url %q", tc.url)
	}
}

func TestCanonicalURL(t *testing.T) {
	require.Equal(t,
		"https://acme.example/jobs/1",
		CanonicalURL("HTTPS://ACME.example/jobs/1#apply"),
	)
	require.Equal(t,
		"https://acme.example/jobs/1?ref=board",
		CanonicalURL("https://acme.example/jobs/1?utm_source=alert&ref=board&utm_campaign=x"),
	)
	require.Equal(t,
		CanonicalURL("https://acme.example/jobs/1?b=2&a=1"),
		CanonicalURL("https://acme.example/jobs/1?a=1&b=2"),
	)
	require.Equal(t, "", CanonicalURL("  "))
}

func TestCollectJobLinks(t *testing.T) {
	html := `<html><body>
		<a href="/jobs/1">One</a>
		<a href="/jobs/2?utm_source=x">Two</a>
		<a href="/jobs/1#apply">One again</a>
		<a href="/about">About</a>
		<a href="https://twitter.com/acme/jobs">Social</a>
		<a href="javascript:void(0)">Noise</a>
		<a href="/jobs/3">Three</a>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	base, _ := url.Parse("https://acme.example/careers")

	links := CollectJobLinks(doc, base, 20)
	require.Equal(t, []string{
		"https://acme.example/jobs/1",
		"https://acme.example/jobs/2",
		"https://acme.example/jobs/3",
	}, links)
}

func TestCollectJobLinksHonorsLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		sb.WriteString(`<a href="/jobs/` + string(rune('a'+i%26)) + string(rune('0'+i/26)) + `">x</a>`)
	}
	sb.WriteString("</body></html>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	base, _ := url.Parse("https://acme.example/")

	links := CollectJobLinks(doc, base, 5)
	require.Len(t, links, 5)
}
