package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
scrape:
  request_delay_seconds: 1.5
sites:
  - name: Acme
    url: https://acme.example/careers
    type: generic
search_terms:
  - platform engineer
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	cfg, v := NormalizeAndValidate(cfg)
	require.True(t, v.OK(), "errors: %v", v.Errors)

	require.Equal(t, 1.5, cfg.Scrape.RequestDelaySeconds)
	require.Equal(t, DefaultMaxLinksPerSource, cfg.Scrape.MaxLinksPerSource)
	require.Equal(t, DefaultMaxJobsPerRun, cfg.Scrape.MaxJobsPerRun)
	require.Equal(t, DefaultPort, cfg.App.Port)
	require.Equal(t, DefaultModel, cfg.Scoring.Model)
	require.NotEmpty(t, cfg.Filters.RemoteKeywords)
	require.NotEmpty(t, cfg.Filters.RegionKeywords)
	require.Equal(t, "INBOX", cfg.Email.Mailbox)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Config{
		Scrape: ScrapeConfig{RequestDelaySeconds: -1},
		Sites: []Site{
			{Name: "", URL: "https://acme.example", Type: "generic"},
			{Name: "NoURL", Type: "workday"},
		},
	}

	_, v := NormalizeAndValidate(cfg)
	require.False(t, v.OK())
	require.Len(t, v.Errors, 3)
}

func TestValidateWarnsOnUnknownType(t *testing.T) {
	cfg := Config{
		Sites: []Site{{Name: "Acme", URL: "https://acme.example", Type: "wrokday"}},
	}

	_, v := NormalizeAndValidate(cfg)
	require.True(t, v.OK())
	require.NotEmpty(t, v.Warnings)
}

func TestValidateQuerySourceNeedsSearchTerms(t *testing.T) {
	cfg := Config{
		Sites: []Site{{Name: "Federal", Type: "usajobs"}},
	}

	_, v := NormalizeAndValidate(cfg)
	require.True(t, v.OK())

	found := false
	for _, w := range v.Warnings {
		if w == "a query-driven source is configured but search_terms is empty; it will be skipped." {
			found = true
		}
	}
	require.True(t, found)
}

func TestNormalizeTrimsAndDedupesLists(t *testing.T) {
	cfg := Config{
		SearchTerms: []string{" cloud architect ", "", "Cloud Architect", "sre"},
	}

	out, _ := NormalizeAndValidate(cfg)
	require.Equal(t, []string{"cloud architect", "sre"}, out.SearchTerms)
}

func TestEnsureUserConfig(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	require.FileExists(t, path)

	cfg, err := Load(path)
	require.NoError(t, err)

	cfg, v := NormalizeAndValidate(cfg)
	require.True(t, v.OK(), "errors: %v", v.Errors)
	require.NotEmpty(t, cfg.Sites)

	// a second call keeps the existing file
	again, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	require.Equal(t, path, again)
}
