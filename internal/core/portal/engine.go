// Package portal drives the SIC case-management portal: login, creation
// form filling, and ticket recovery from the listing page. The portal has
// no API; every interaction goes through its HTML surface with hardcoded
// selectors.
package portal

import (
	"context"
	"fmt"

	"sicbot/internal/config"
	"sicbot/internal/core/textmatch"
	"sicbot/internal/logger"

	"github.com/playwright-community/playwright-go"
)

// Engine owns one browser session against the portal for the duration of a
// single run. It is not safe for concurrent use; each run creates its own.
type Engine struct {
	log  *logger.Logger
	cfg  config.Config
	maps config.Maps

	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

func New(cfg config.Config, maps config.Maps) *Engine {
	return &Engine{log: logger.New("Portal"), cfg: cfg, maps: maps}
}

// Start launches the browser and opens a fresh page.
func (e *Engine) Start() error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("playwright initialization failed: %w", err)
	}
	e.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(e.cfg.Headless),
		SlowMo:   playwright.Float(float64(e.cfg.SlowMoMs)),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
		},
	})
	if err != nil {
		e.pw.Stop()
		return fmt.Errorf("browser launch failed: %w", err)
	}
	e.browser = browser

	page, err := browser.NewPage()
	if err != nil {
		e.Close()
		return fmt.Errorf("page creation failed: %w", err)
	}
	e.page = page
	return nil
}

// Login authenticates against the portal. The surface gives no explicit
// success signal; a bad login surfaces as a failure on the next navigation.
func (e *Engine) Login(_ context.Context) error {
	e.log.LogInfo("logging into portal")
	if _, err := e.page.Goto(e.cfg.SicBaseURL+"/index", playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("portal unreachable: %w", err)
	}
	if err := e.page.Locator("text=Portal Colaboradores").Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		return fmt.Errorf("login entry not found: %w", err)
	}
	if err := e.page.Locator("#name").Fill(e.cfg.SicUser); err != nil {
		return fmt.Errorf("fill user: %w", err)
	}
	if err := e.page.Locator("#password").Fill(e.cfg.SicPassword); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := e.page.Locator("#ingresar").Click(); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	return nil
}

// Screenshot captures the current page full-page for diagnostics.
func (e *Engine) Screenshot() ([]byte, error) {
	if e.page == nil {
		return nil, fmt.Errorf("no page")
	}
	return e.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Timeout:  playwright.Float(15000),
	})
}

// PageHTML returns the current DOM serialization for diagnostics.
func (e *Engine) PageHTML() (string, error) {
	if e.page == nil {
		return "", fmt.Errorf("no page")
	}
	return e.page.Content()
}

func (e *Engine) Close() {
	if e.browser != nil {
		_ = e.browser.Close()
	}
	if e.pw != nil {
		_ = e.pw.Stop()
	}
}

// selectCandidates scrapes the (label, value) pairs of a select control.
// Options are read live on every run; the portal's value space is assumed
// stable but is never cached.
func (e *Engine) selectCandidates(selector string) ([]textmatch.Candidate, error) {
	res, err := e.page.Evaluate(fmt.Sprintf(`() => {
		const select = document.querySelector(%q);
		if (!select) return [];
		return Array.from(select.options)
			.filter(o => o.value !== '')
			.map(o => ({ label: o.text, value: o.value }));
	}`, selector))
	if err != nil {
		return nil, err
	}

	items, ok := res.([]interface{})
	if !ok {
		return nil, nil
	}
	candidates := make([]textmatch.Candidate, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		label, _ := m["label"].(string)
		value, _ := m["value"].(string)
		if label == "" && value == "" {
			continue
		}
		candidates = append(candidates, textmatch.Candidate{Label: label, Value: value})
	}
	return candidates, nil
}
