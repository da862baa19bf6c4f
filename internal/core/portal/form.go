package portal

import (
	"context"
	"fmt"
	"time"

	"sicbot/internal/core/registro"
	"sicbot/internal/core/textmatch"

	"github.com/playwright-community/playwright-go"
)

const fieldWaitMs = 20000

// FillForm opens the creation form and populates every field. Text-field
// failures abort the run; optional dropdowns that cannot be resolved are
// logged and left unset.
func (e *Engine) FillForm(_ context.Context, r *registro.Registro) error {
	if _, err := e.page.Goto(e.cfg.SicBaseURL+"/SolicitudGestor/create", playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("open creation form: %w", err)
	}

	// The form renders its fields asynchronously; these two must be
	// interactable before anything is typed.
	for _, sel := range []string{"#nit", "#empresa"} {
		if err := e.page.Locator(sel).WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(fieldWaitMs),
		}); err != nil {
			return fmt.Errorf("form field %s not interactable: %w", sel, err)
		}
	}

	if err := e.fillText("#nit", r.Nit); err != nil {
		return err
	}
	if err := e.fillText("#empresa", r.Empresa); err != nil {
		return err
	}
	if err := e.fillText("#linea", e.cfg.SicLineaFija); err != nil {
		return err
	}

	nombres, apellidos := textmatch.SplitName(r.Cliente)
	if err := e.fillText("#nombres", nombres); err != nil {
		return err
	}
	if err := e.fillText("#apellidos", apellidos); err != nil {
		return err
	}
	if err := e.fillText("#celular", r.Celular); err != nil {
		return err
	}
	if err := e.fillText("#correo", r.Correo); err != nil {
		return err
	}
	if err := e.fillText("#concepto", r.Concepto); err != nil {
		return err
	}

	e.selectCiudad(r.Ciudad)

	// Tipo de cliente always resolves (unmapped categories default), so a
	// select failure here means the control itself is broken.
	tipo := TipoClienteValue(r.TipoCliente, e.maps)
	if err := e.selectValue("#id_tipo_cliente", tipo); err != nil {
		return fmt.Errorf("select tipo cliente %q: %w", tipo, err)
	}

	if err := e.fillMedioContacto(r.MedioContacto); err != nil {
		e.log.LogWarnf("medio de contacto %q not resolved, leaving unset: %v", r.MedioContacto, err)
	}

	if code, ok := AgentCode(r.AsignadoA, e.maps.Agentes); ok {
		if err := e.selectValue("#asignado", code); err != nil {
			e.log.LogWarnf("select asignado %q (code %s) failed, leaving unset: %v", r.AsignadoA, code, err)
		}
	} else {
		e.log.LogWarnf("no agent code for %q, leaving unset", r.AsignadoA)
	}

	linea := ClassifyLineaVenta(r.LineaVenta)
	if err := e.selectValue("#linea_venta", linea); err != nil {
		e.log.LogWarnf("select linea de venta %s failed, leaving unset: %v", linea, err)
	}

	return e.submitForm()
}

func (e *Engine) fillText(selector, value string) error {
	if err := e.page.Locator(selector).Fill(value); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

func (e *Engine) selectValue(selector, value string) error {
	_, err := e.page.Locator(selector).SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	return err
}

// selectCiudad fuzzy-matches the captured city against the live option
// list. Any top score is accepted, including zero: a guessed city beats an
// empty one on this form.
func (e *Engine) selectCiudad(ciudad string) {
	if ciudad == "" {
		return
	}
	candidates, err := e.selectCandidates("#ciudad")
	if err != nil {
		e.log.LogWarnf("scrape city options failed, leaving unset: %v", err)
		return
	}
	best, score, ok := textmatch.Best(ciudad, candidates)
	if !ok {
		e.log.LogWarnf("city select has no options, leaving unset")
		return
	}
	if err := e.selectValue("#ciudad", best.Value); err != nil {
		e.log.LogWarnf("select city %q failed, leaving unset: %v", best.Value, err)
		return
	}
	e.log.LogInfof("city %q resolved to %s (%s, score %.1f)", ciudad, best.Value, best.Label, score)
}

// fillMedioContacto handles the portal rendering this field as either a
// text input or a select, decided at runtime. For selects, a small ordered
// list of known raw values is tried before falling back to label matching.
func (e *Engine) fillMedioContacto(medio string) error {
	if medio == "" {
		return fmt.Errorf("empty value")
	}
	loc := e.page.Locator("#medio_contacto")
	tag, err := loc.Evaluate("el => el.tagName", nil)
	if err != nil {
		return fmt.Errorf("control not found: %w", err)
	}

	if tagName, _ := tag.(string); tagName != "SELECT" {
		return loc.Fill(medio)
	}

	for _, raw := range e.maps.MedioContactoValores {
		selected, err := loc.SelectOption(playwright.SelectOptionValues{Values: &[]string{raw}})
		if err == nil && len(selected) > 0 {
			return nil
		}
	}

	candidates, err := e.selectCandidates("#medio_contacto")
	if err != nil {
		return fmt.Errorf("scrape options: %w", err)
	}
	best, score, ok := textmatch.Best(medio, candidates)
	if !ok || score == 0 {
		return fmt.Errorf("no option matched %q", medio)
	}
	return e.selectValue("#medio_contacto", best.Value)
}

func (e *Engine) submitForm() error {
	if err := e.page.Locator("#guardar").Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		return fmt.Errorf("submit form: %w", err)
	}
	_ = e.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(15000),
	})
	// The portal fires a post-submit refresh with no completion signal.
	time.Sleep(2 * time.Second)
	e.log.LogInfo("creation form submitted")
	return nil
}
