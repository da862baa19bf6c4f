package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sicbot/internal/core/textmatch"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
)

// ErrNoRows means the listing page showed no records at all after every
// retry. Unlike the degraded first-row fallback there is nothing to return.
var ErrNoRows = errors.New("listing returned no rows")

const (
	rowWaitMs       = 20000
	filterSelectors = "input[type='search'], #buscar, input[name='search']"
)

type listingRow struct {
	Ticket  string
	Nit     string
	Empresa string
}

// parseListingRows extracts (ticket, nit, empresa) from the listing table.
// Column layout is fixed: ticket in the first cell, nit in the fourth,
// empresa in the fifth. Rows with fewer cells are decoration and skipped.
func parseListingRows(html string) ([]listingRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}
	var rows []listingRow
	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 5 {
			return
		}
		rows = append(rows, listingRow{
			Ticket:  strings.TrimSpace(cells.Eq(0).Text()),
			Nit:     strings.TrimSpace(cells.Eq(3).Text()),
			Empresa: strings.TrimSpace(cells.Eq(4).Text()),
		})
	})
	return rows, nil
}

// matchListingRow applies the layered match strategy: exact nit, exact
// normalized empresa, then substring containment either direction.
func matchListingRow(rows []listingRow, nit, empresa string) (string, bool) {
	for _, row := range rows {
		if nit != "" && strings.EqualFold(strings.TrimSpace(nit), row.Nit) {
			return row.Ticket, true
		}
	}
	wantEmpresa := textmatch.Normalize(empresa)
	if wantEmpresa == "" {
		return "", false
	}
	for _, row := range rows {
		if textmatch.Normalize(row.Empresa) == wantEmpresa {
			return row.Ticket, true
		}
	}
	for _, row := range rows {
		got := textmatch.Normalize(row.Empresa)
		if got == "" {
			continue
		}
		if strings.Contains(got, wantEmpresa) || strings.Contains(wantEmpresa, got) {
			return row.Ticket, true
		}
	}
	return "", false
}

// resolveTicket applies the outcome rules to a final row set: a matched
// row wins, an unmatched non-empty listing falls back to the first row
// (degraded), and an empty listing is fatal.
func resolveTicket(rows []listingRow, nit, empresa string) (ticket string, degraded bool, err error) {
	if t, ok := matchListingRow(rows, nit, empresa); ok {
		return t, false, nil
	}
	if len(rows) == 0 {
		return "", false, ErrNoRows
	}
	// Last resort: assume the listing's first row is the most recent
	// record. The surface gives no ordering guarantee; this is a known
	// best-effort heuristic.
	return rows[0].Ticket, true, nil
}

// FindTicket recovers the ticket the portal assigned to the record just
// created. The portal returns no confirmation identifier, so the listing
// view is the only source of truth.
func (e *Engine) FindTicket(_ context.Context, nit, empresa string) (string, error) {
	if _, err := e.page.Goto(e.cfg.SicBaseURL+"/SolicitudGestor", playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return "", fmt.Errorf("open listing: %w", err)
	}

	rows, err := e.waitForRows(true)
	if err != nil {
		return "", err
	}

	ticket, degraded, err := resolveTicket(rows, nit, empresa)
	if err == nil && !degraded {
		e.log.LogInfof("ticket %s matched for nit=%s", ticket, nit)
		return ticket, nil
	}

	// Before accepting a degraded match or giving up, narrow the listing
	// through its own search control.
	if filtered, ok := e.filterListing(nit, empresa); ok && len(filtered) > 0 {
		ticket, degraded, err = resolveTicket(filtered, nit, empresa)
		if err == nil && !degraded {
			e.log.LogInfof("ticket %s matched on filtered listing for nit=%s", ticket, nit)
			return ticket, nil
		}
	}
	if err != nil {
		return "", err
	}

	e.log.LogWarnf("degraded match: no row matched nit=%s empresa=%q, taking first-row ticket %s", nit, empresa, ticket)
	return ticket, nil
}

// waitForRows waits for the table to attach at least one row, reloading
// once if the first wait times out empty.
func (e *Engine) waitForRows(allowReload bool) ([]listingRow, error) {
	waitErr := e.page.Locator("table tbody tr").First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(rowWaitMs),
	})

	html, err := e.page.Content()
	if err != nil {
		return nil, fmt.Errorf("read listing page: %w", err)
	}
	rows, err := parseListingRows(html)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 && waitErr != nil && allowReload {
		e.log.LogWarnf("listing empty after wait, reloading once")
		if _, err := e.page.Reload(playwright.PageReloadOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(30000),
		}); err != nil {
			return nil, fmt.Errorf("reload listing: %w", err)
		}
		return e.waitForRows(false)
	}
	return rows, nil
}

// filterListing resubmits the listing's own search control, preferring the
// nit over the company name, and returns the filtered rows. ok is false
// when the surface has no filter control.
func (e *Engine) filterListing(nit, empresa string) ([]listingRow, bool) {
	filter := e.page.Locator(filterSelectors).First()
	count, err := e.page.Locator(filterSelectors).Count()
	if err != nil || count == 0 {
		return nil, false
	}

	query := nit
	if query == "" {
		query = empresa
	}
	if query == "" {
		return nil, false
	}

	if err := filter.Fill(query); err != nil {
		e.log.LogWarnf("fill listing filter failed: %v", err)
		return nil, false
	}
	if err := filter.Press("Enter"); err != nil {
		e.log.LogWarnf("submit listing filter failed: %v", err)
		return nil, false
	}
	// The filter redraws the table without a reliable completion signal.
	time.Sleep(1500 * time.Millisecond)

	rows, err := e.waitForRows(false)
	if err != nil {
		e.log.LogWarnf("filtered listing read failed: %v", err)
		return nil, false
	}
	return rows, true
}
