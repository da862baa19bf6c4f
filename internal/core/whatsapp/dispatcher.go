// Package whatsapp drives the WhatsApp Web messaging surface to deliver
// run notifications. It owns its own authenticated session, persisted as a
// storage-state file and shared across runs.
package whatsapp

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sicbot/internal/config"
	"sicbot/internal/logger"
	"sicbot/internal/platform/phone"

	"github.com/playwright-community/playwright-go"
)

// loggedInMarker is only present once WhatsApp Web has an active session.
const loggedInMarker = "div[contenteditable='true'][data-tab='3']"

// composerSelectors is the ordered ladder tried to locate the message
// composer; layouts shift between releases, the last match wins.
var composerSelectors = []string{
	"div[contenteditable='true'][data-tab]",
	"div[contenteditable='true'][role='textbox']",
	"[role='textbox']",
	"div[contenteditable='true']",
	"[contenteditable='true']",
	".selectable-text.copyable-text",
}

// Dispatcher sends the run notifications over WhatsApp Web. Like the
// portal engine it is created fresh per run and not safe for concurrent
// use; the storage-state file is the only state shared across runs.
type Dispatcher struct {
	log  *logger.Logger
	cfg  config.Config
	maps config.Maps

	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
	page    playwright.Page
}

func NewDispatcher(cfg config.Config, maps config.Maps) *Dispatcher {
	return &Dispatcher{log: logger.New("WhatsApp"), cfg: cfg, maps: maps}
}

// Start launches the browser with any persisted session and waits for the
// surface to be authenticated, falling back to a manual QR scan.
func (d *Dispatcher) Start() error {
	hadSession := EnsureSessionFile(d.cfg.WaSessionPath)
	if hadSession {
		d.log.LogInfof("using persisted session %s", d.cfg.WaSessionPath)
	} else {
		d.log.LogWarnf("no usable session at %s, QR scan may be required", d.cfg.WaSessionPath)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("playwright initialization failed: %w", err)
	}
	d.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.cfg.Headless),
		SlowMo:   playwright.Float(float64(d.cfg.SlowMoMs)),
		Args:     []string{"--no-sandbox", "--disable-dev-shm-usage"},
	})
	if err != nil {
		d.pw.Stop()
		return fmt.Errorf("browser launch failed: %w", err)
	}
	d.browser = browser

	contextOptions := playwright.BrowserNewContextOptions{}
	if hadSession {
		contextOptions.StorageStatePath = playwright.String(d.cfg.WaSessionPath)
	}
	bctx, err := browser.NewContext(contextOptions)
	if err != nil {
		d.Close()
		return fmt.Errorf("browser context creation failed: %w", err)
	}
	d.bctx = bctx

	page, err := bctx.NewPage()
	if err != nil {
		d.Close()
		return fmt.Errorf("page creation failed: %w", err)
	}
	d.page = page

	if _, err := page.Goto(d.cfg.WaBaseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(60000),
	}); err != nil {
		d.Close()
		return fmt.Errorf("messaging surface unreachable: %w", err)
	}

	if err := d.ensureAuthenticated(); err != nil {
		d.Close()
		return err
	}
	d.persistSession()
	return nil
}

// ensureAuthenticated waits briefly for the logged-in marker and, when
// absent, waits the longer QR-scan window for a human to authenticate.
func (d *Dispatcher) ensureAuthenticated() error {
	marker := d.page.Locator(loggedInMarker).First()
	err := marker.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(d.cfg.WaAuthWaitSec) * 1000),
	})
	if err == nil {
		d.log.LogInfo("session already authenticated")
		return nil
	}

	d.log.LogWarnf("not authenticated, waiting %ds for QR scan", d.cfg.WaQRScanSec)
	if err := marker.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(d.cfg.WaQRScanSec) * 1000),
	}); err != nil {
		return fmt.Errorf("messaging authentication failed (QR not scanned): %w", err)
	}
	d.log.LogInfo("QR scan completed")
	return nil
}

// persistSession rewrites the storage-state file. Called after every send
// regardless of outcome so any session refresh the surface performed is
// captured. Best-effort.
func (d *Dispatcher) persistSession() {
	if d.bctx == nil {
		return
	}
	if _, err := d.bctx.StorageState(d.cfg.WaSessionPath); err != nil {
		d.log.LogWarnf("persist session failed: %v", err)
	}
}

// SendToGroup locates the target chat by name through the surface's own
// search box and sends the message.
func (d *Dispatcher) SendToGroup(_ context.Context, groupName, message string) error {
	defer d.persistSession()

	search := d.page.Locator(loggedInMarker).First()
	if err := search.Click(); err != nil {
		return fmt.Errorf("focus chat search: %w", err)
	}
	if err := search.PressSequentially(groupName, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(20),
	}); err != nil {
		return fmt.Errorf("type group name: %w", err)
	}
	// Search results render asynchronously with no completion signal.
	time.Sleep(1500 * time.Millisecond)

	exact := d.page.Locator(fmt.Sprintf("span[title=%q]", groupName))
	if count, err := exact.Count(); err == nil && count > 0 {
		if err := exact.First().Click(); err != nil {
			return fmt.Errorf("open group chat: %w", err)
		}
	} else if err := search.Press("Enter"); err != nil {
		return fmt.Errorf("select first search result: %w", err)
	}
	time.Sleep(1 * time.Second)

	return d.typeAndSend(message)
}

// SendToNumber opens a direct chat with the requester's phone and sends
// the message. The number is normalized to E.164 first.
func (d *Dispatcher) SendToNumber(_ context.Context, number, message string) error {
	defer d.persistSession()

	e164 := phone.NormalizeE164(number, d.cfg.DefaultRegion)
	sendURL := fmt.Sprintf("%s/send?phone=%s", d.cfg.WaBaseURL, url.QueryEscape(strings.TrimPrefix(e164, "+")))
	if _, err := d.page.Goto(sendURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(60000),
	}); err != nil {
		return fmt.Errorf("open chat with %s: %w", e164, err)
	}
	// Chat pane hydrates after the navigation settles.
	time.Sleep(5 * time.Second)

	return d.typeAndSend(message)
}

func (d *Dispatcher) findComposer() (playwright.Locator, error) {
	for _, selector := range composerSelectors {
		loc := d.page.Locator(selector)
		count, err := loc.Count()
		if err != nil {
			continue
		}
		if count > 0 {
			d.log.LogDebugf("composer found with %s (%d elements)", selector, count)
			return loc.Last(), nil
		}
	}
	return nil, fmt.Errorf("message composer not found")
}

// typeAndSend types the message line by line, pressing Shift+Enter between
// lines so literal breaks survive, then submits with Enter (falling back
// to the send button).
func (d *Dispatcher) typeAndSend(message string) error {
	composer, err := d.findComposer()
	if err != nil {
		return err
	}
	if err := composer.Click(); err != nil {
		return fmt.Errorf("focus composer: %w", err)
	}
	time.Sleep(500 * time.Millisecond)
	if _, err := d.page.Evaluate("() => { document.activeElement?.focus(); }"); err != nil {
		d.log.LogDebugf("focus evaluate failed: %v", err)
	}

	lines := strings.Split(message, "\n")
	for i, line := range lines {
		if line != "" {
			if err := composer.PressSequentially(line, playwright.LocatorPressSequentiallyOptions{
				Delay: playwright.Float(20),
			}); err != nil {
				return fmt.Errorf("type line %d: %w", i+1, err)
			}
		}
		if i < len(lines)-1 {
			if err := composer.Press("Shift+Enter"); err != nil {
				return fmt.Errorf("line break: %w", err)
			}
			time.Sleep(150 * time.Millisecond)
		}
	}
	time.Sleep(2 * time.Second)

	if err := composer.Press("Enter"); err != nil {
		d.log.LogWarnf("Enter failed, trying send button: %v", err)
		button := d.page.Locator("button[aria-label*='Send' i], button[aria-label*='Enviar' i]")
		count, cerr := button.Count()
		if cerr != nil || count == 0 {
			return fmt.Errorf("send message: %w", err)
		}
		if err := button.First().Click(); err != nil {
			return fmt.Errorf("send button: %w", err)
		}
	}
	time.Sleep(3 * time.Second)
	d.log.LogInfo("message sent")
	return nil
}

// Screenshot captures the current page full-page for diagnostics.
func (d *Dispatcher) Screenshot() ([]byte, error) {
	if d.page == nil {
		return nil, fmt.Errorf("no page")
	}
	return d.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Timeout:  playwright.Float(15000),
	})
}

// PageHTML returns the current DOM serialization for diagnostics.
func (d *Dispatcher) PageHTML() (string, error) {
	if d.page == nil {
		return "", fmt.Errorf("no page")
	}
	return d.page.Content()
}

func (d *Dispatcher) Close() {
	if d.bctx != nil {
		_ = d.bctx.Close()
	}
	if d.browser != nil {
		_ = d.browser.Close()
	}
	if d.pw != nil {
		_ = d.pw.Stop()
	}
}
