package scrape

import "fmt"

// MissingCredentialError means a source cannot run at all because a
// required credential is absent. It is detected before any network
// activity; the source is skipped (or the run refused, when it is the
// only source) with remediation guidance instead of a retry.
type MissingCredentialError struct {
	Source string
	Key    string
	Hint   string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("source %s: credential %s is not set (%s)", e.Source, e.Key, e.Hint)
}
