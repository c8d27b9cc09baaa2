package config

import (
	"errors"
	"os"
	"path/filepath"
)

const defaultConfigYAML = `app:
  port: 8750
  data_dir: .

scrape:
  request_delay_seconds: 2.0
  source_delay_seconds: 3.0
  max_links_per_source: 20
  max_jobs_per_run: 500
  settle_millis: 5000

filters:
  # Empty lists fall back to the built-in remote + DC metro keyword sets.
  remote_keywords: []
  region_keywords: []

sites:
  - name: BAE Systems
    url: https://jobs.baesystems.com/global/en/search-results
    type: workday
    search:
      keywords: enterprise architect
      location: Washington DC
  - name: Maximus
    url: https://careers.maximus.com/search-jobs
    type: icims
    search:
      keywords: technology director
  - name: Leidos
    url: https://careers.leidos.com/search/jobs
    type: generic
    search:
      keywords: chief architect federal

search_terms:
  - enterprise architect
  - chief technology officer
  - cloud architect

scoring:
  model: gemini-2.5-flash
  min_match_score: 70
  resume_path: resume.txt

email:
  enabled: false
  imap_host: imap.gmail.com:993
  username: ""
  mailbox: INBOX
  max_messages: 50
`

// EnsureUserConfig writes the default config into the data dir on first
// run and returns the path to the user's copy.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(userPath, []byte(defaultConfigYAML), 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
