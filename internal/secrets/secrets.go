// Package secrets resolves credentials from the environment first and
// the OS keychain second, so nothing sensitive lives in config.yml.
package secrets

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "jobhunter"

// Well-known secret names.
const (
	KeyGeminiAPI      = "GEMINI_API_KEY"
	KeyGoogleSearch   = "GOOGLE_SEARCH_API_KEY"
	KeyGoogleSearchCX = "GOOGLE_SEARCH_CX"
	KeyUSAJobsAPI     = "USAJOBS_API_KEY"
	KeyUSAJobsEmail   = "USAJOBS_EMAIL"
	KeyIMAPPassword   = "IMAP_PASSWORD"
)

var loadEnvOnce sync.Once

// Lookup returns the secret for name, or "" when it is set nowhere.
// A .env file in the working directory is honored, matching how the
// rest of the tooling around this app is configured.
func Lookup(name string) string {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}

	v, err := keyring.Get(KeyringService, name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

func Set(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("secret name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(KeyringService, name, value)
}

func Delete(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("secret name is empty")
	}
	return keyring.Delete(KeyringService, name)
}
