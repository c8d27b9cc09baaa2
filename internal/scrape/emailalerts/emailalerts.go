// Package emailalerts pulls posting links out of job-alert emails over
// IMAP. Messages are fetched with BODY.PEEK[] so the mailbox state is
// untouched; links are handed back to the scrape pipeline as ordinary
// candidate URLs.
package emailalerts

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

type Config struct {
	// Addr is host:port of the IMAPS endpoint, e.g. imap.gmail.com:993.
	Addr     string
	Username string
	Password string
	Mailbox  string
	// MaxMessages bounds how many unseen messages one run inspects.
	MaxMessages int
}

var (
	urlPattern       = regexp.MustCompile(`https?://[^\s"'<>()\]]+`)
	softBreakPattern = regexp.MustCompile(`=\r?\n`)
)

// closeOnCancel releases c if ctx is cancelled mid-fetch. The returned
// stop func must be called when the fetch finishes so the watcher
// exits instead of parking on ctx for the rest of the process.
func closeOnCancel(ctx context.Context, c io.Closer) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// FetchLinks logs in, scans unseen messages (newest first, within the
// last three months) and returns every http(s) link found in their
// bodies, in message order. The caller filters them for job-ness.
func FetchLinks(ctx context.Context, cfg Config) ([]string, error) {
	if cfg.Addr == "" {
		return nil, errors.New("imap addr is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("imap username/password is required")
	}
	mailbox := cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	max := cfg.MaxMessages
	if max <= 0 {
		max = 50
	}

	host, _, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		host = cfg.Addr
	}

	c, err := imapclient.DialTLS(cfg.Addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}
	defer func() { _ = c.Close() }()

	stop := closeOnCancel(ctx, c)
	defer stop()

	if err := c.Login(cfg.Username, cfg.Password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", mailbox, err)
	}

	cutoff := time.Now().AddDate(0, -3, 0)
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   cutoff,
	}

	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search unseen: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// Newest first.
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > max {
		uids = uids[:max]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchOptions := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	}

	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), fetchOptions)
	defer func() { _ = fetchCmd.Close() }()

	var links []string
	seen := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}

		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		body := buf.FindBodySection(bodyAll)
		if len(body) == 0 {
			continue
		}
		for _, link := range ExtractLinks(body) {
			if seen[link] {
				continue
			}
			seen[link] = true
			links = append(links, link)
		}
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}

	return links, nil
}

// ExtractLinks scans raw message bytes for http(s) URLs. Quoted-
// printable soft breaks (=\r\n) are common in alert emails and are
// joined before matching.
func ExtractLinks(raw []byte) []string {
	unfolded := softBreakPattern.ReplaceAll(raw, nil)
	matches := urlPattern.FindAll(unfolded, -1)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, string(m))
	}
	return out
}
