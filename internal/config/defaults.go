package config

// Baked-in defaults. The caps and delays are politeness numbers, not
// correctness numbers; override them in config.yml when a site needs it.
const (
	DefaultRequestDelaySeconds = 2.0
	DefaultSourceDelaySeconds  = 3.0
	DefaultMaxLinksPerSource   = 20
	DefaultMaxJobsPerRun       = 500
	DefaultSettleMillis        = 5000
	DefaultPort                = 8750
	DefaultPollIntervalMinutes = 0 // serve mode: 0 disables periodic scraping
	DefaultMaxEmailMessages    = 50
	DefaultModel               = "gemini-2.5-flash"
	DefaultMinMatchScore       = 70
	DefaultResumePath          = "resume.txt"

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// DefaultRemoteKeywords mark a location string as remote-friendly.
func DefaultRemoteKeywords() []string {
	return []string{"remote", "telework", "work from home", "wfh", "anywhere"}
}

// DefaultRegionKeywords cover the DC metro area (DC, Northern Virginia,
// suburban Maryland).
func DefaultRegionKeywords() []string {
	return []string{
		// DC
		"washington", "dc", "d.c.",
		// Virginia
		"virginia", " va", ",va", "arlington", "alexandria", "fairfax",
		"reston", "mclean", "tysons", "chantilly", "herndon", "vienna",
		"sterling", "manassas", "falls church",
		// Maryland
		"maryland", " md", ",md", "bethesda", "rockville", "silver spring",
		"gaithersburg", "germantown", "college park", "bowie", "greenbelt",
		"largo", "fort washington", "suitland", "annapolis", "fort meade",
		"glen burnie", "severn", "columbia", "ellicott city", "laurel",
	}
}

// ApplyDefaults fills zero values in-place so the rest of the engine
// never has to special-case an empty config.
func ApplyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = DefaultPort
	}
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = "."
	}
	if cfg.Scrape.RequestDelaySeconds == 0 {
		cfg.Scrape.RequestDelaySeconds = DefaultRequestDelaySeconds
	}
	if cfg.Scrape.SourceDelaySeconds == 0 {
		cfg.Scrape.SourceDelaySeconds = DefaultSourceDelaySeconds
	}
	if cfg.Scrape.MaxLinksPerSource == 0 {
		cfg.Scrape.MaxLinksPerSource = DefaultMaxLinksPerSource
	}
	if cfg.Scrape.MaxJobsPerRun == 0 {
		cfg.Scrape.MaxJobsPerRun = DefaultMaxJobsPerRun
	}
	if cfg.Scrape.SettleMillis == 0 {
		cfg.Scrape.SettleMillis = DefaultSettleMillis
	}
	if cfg.Scrape.UserAgent == "" {
		cfg.Scrape.UserAgent = DefaultUserAgent
	}
	if len(cfg.Filters.RemoteKeywords) == 0 {
		cfg.Filters.RemoteKeywords = DefaultRemoteKeywords()
	}
	if len(cfg.Filters.RegionKeywords) == 0 {
		cfg.Filters.RegionKeywords = DefaultRegionKeywords()
	}
	if cfg.Email.Mailbox == "" {
		cfg.Email.Mailbox = "INBOX"
	}
	if cfg.Email.MaxMessages == 0 {
		cfg.Email.MaxMessages = DefaultMaxEmailMessages
	}
	if cfg.Scoring.Model == "" {
		cfg.Scoring.Model = DefaultModel
	}
	if cfg.Scoring.MinMatchScore == 0 {
		cfg.Scoring.MinMatchScore = DefaultMinMatchScore
	}
	if cfg.Scoring.ResumePath == "" {
		cfg.Scoring.ResumePath = DefaultResumePath
	}
}
