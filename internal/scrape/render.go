package scrape

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"jobhunter/internal/config"
)

// Candidate selectors for on-page search forms, most specific first.
// A selector that matches nothing is skipped without failing the page.
var keywordInputSelectors = []string{
	`input[type="search"]`,
	`input[placeholder*="search" i]`,
	`input[placeholder*="keyword" i]`,
	`input[name*="search" i]`,
	`input[name*="keyword" i]`,
	`input[id*="search" i]`,
	`input[id*="keyword" i]`,
	`#keywordInput`,
}

var locationInputSelectors = []string{
	`input[placeholder*="location" i]`,
	`input[placeholder*="city" i]`,
	`input[placeholder*="where" i]`,
	`input[name*="location" i]`,
	`input[id*="location" i]`,
	`input[aria-label*="location" i]`,
	`#locationInput`,
}

const searchButtonSelector = `button[type="submit"], button:has-text("Search"), button[aria-label*="search" i]`

// Browser is the rendered retrieval mode: a scriptable browsing session
// for ATS boards that build their markup client-side. One session is
// shared across a run; Close is safe from any point.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
	page    playwright.Page
	settle  time.Duration
}

// OpenBrowser starts the playwright driver and a headless session. An
// error here means the capability is absent and rendered sources should
// degrade to the static fetcher.
func OpenBrowser(userAgent string, settle time.Duration) (*Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright driver: %w", err)
	}

	b := &Browser{pw: pw, settle: settle}

	b.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	b.bctx, err = b.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("new browser context: %w", err)
	}

	b.page, err = b.bctx.NewPage()
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}

	return b, nil
}

// Close releases the session. Every exit path of a run must reach this;
// it tolerates partially-constructed sessions and repeated calls.
func (b *Browser) Close() {
	if b == nil {
		return
	}
	if b.page != nil {
		_ = b.page.Close()
		b.page = nil
	}
	if b.bctx != nil {
		_ = b.bctx.Close()
		b.bctx = nil
	}
	if b.browser != nil {
		_ = b.browser.Close()
		b.browser = nil
	}
	if b.pw != nil {
		_ = b.pw.Stop()
		b.pw = nil
	}
}

// Load navigates to rawURL and waits the settling interval for
// client-side rendering to finish.
func (b *Browser) Load(rawURL string) error {
	if _, err := b.page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("goto %s: %w", rawURL, err)
	}
	time.Sleep(b.settle)
	return nil
}

// ApplySearch fills the board's search form from params and submits it.
// Every step is best-effort: a field whose selector never matches is
// simply skipped, and submission falls back to pressing Enter.
func (b *Browser) ApplySearch(params config.SearchParams) {
	interacted := false

	if params.Keywords != "" && b.fillFirst(keywordInputSelectors, params.Keywords) {
		interacted = true
	}
	if params.Location != "" && b.fillFirst(locationInputSelectors, params.Location) {
		interacted = true
	}
	if !interacted {
		return
	}

	btn := b.page.Locator(searchButtonSelector).First()
	if visible, err := btn.IsVisible(); err == nil && visible {
		if err := btn.Click(); err != nil {
			_ = b.page.Keyboard().Press("Enter")
		}
	} else {
		_ = b.page.Keyboard().Press("Enter")
	}

	time.Sleep(3 * time.Second)
}

func (b *Browser) fillFirst(selectors []string, value string) bool {
	for _, sel := range selectors {
		loc := b.page.Locator(sel).First()
		visible, err := loc.IsVisible()
		if err != nil || !visible {
			continue
		}
		if err := loc.Fill(value); err != nil {
			continue
		}
		return true
	}
	return false
}

// Document hands the rendered markup to the shared goquery parser so
// rendered and static sources flow through the same extraction rules.
func (b *Browser) Document() (*goquery.Document, error) {
	html, err := b.page.Content()
	if err != nil {
		return nil, fmt.Errorf("page content: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
