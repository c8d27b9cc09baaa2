package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SearchParams are optional structured search inputs for a site. For
// rendered boards they are typed into the on-page search form; for API
// sources they become query parameters.
type SearchParams struct {
	Keywords string `yaml:"keywords"`
	Location string `yaml:"location"`
}

// Site is one configured origin to scrape. Type selects the strategy
// (workday, icims, avature, greenhouse, lever, usajobs, googlesearch,
// email, generic). Unknown types fall back to the generic strategy.
type Site struct {
	Name   string       `yaml:"name"`
	URL    string       `yaml:"url"`
	Type   string       `yaml:"type"`
	Search SearchParams `yaml:"search"`
}

type AppConfig struct {
	Port    int    `yaml:"port"`
	DataDir string `yaml:"data_dir"`
}

type ScrapeConfig struct {
	// Minimum seconds between two requests to the same host.
	RequestDelaySeconds float64 `yaml:"request_delay_seconds"`
	// Extra pause between distinct sources/searches, on top of the
	// per-host limiter.
	SourceDelaySeconds float64 `yaml:"source_delay_seconds"`
	MaxLinksPerSource  int     `yaml:"max_links_per_source"`
	MaxJobsPerRun      int     `yaml:"max_jobs_per_run"`
	// How long a rendered page gets to settle before extraction.
	SettleMillis int    `yaml:"settle_millis"`
	UserAgent    string `yaml:"user_agent"`
}

type FiltersConfig struct {
	RemoteKeywords []string `yaml:"remote_keywords"`
	RegionKeywords []string `yaml:"region_keywords"`
}

type ScoringConfig struct {
	Model         string  `yaml:"model"`
	MinMatchScore float64 `yaml:"min_match_score"`
	ResumePath    string  `yaml:"resume_path"`
}

type EmailConfig struct {
	Enabled     bool   `yaml:"enabled"`
	IMAPHost    string `yaml:"imap_host"`
	Username    string `yaml:"username"`
	Mailbox     string `yaml:"mailbox"`
	MaxMessages int    `yaml:"max_messages"`
}

type PollConfig struct {
	IntervalMinutes int `yaml:"interval_minutes"`
}

type Config struct {
	App     AppConfig     `yaml:"app"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Filters FiltersConfig `yaml:"filters"`
	Sites   []Site        `yaml:"sites"`

	// SearchTerms drive query-template sources (googlesearch, usajobs).
	SearchTerms []string `yaml:"search_terms"`

	Scoring ScoringConfig `yaml:"scoring"`
	Email   EmailConfig   `yaml:"email"`
	Poll    PollConfig    `yaml:"poll"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
