package portal

import (
	"sort"
	"strings"

	"sicbot/internal/config"
	"sicbot/internal/core/textmatch"
)

// Sales line codes used by the portal's linea-de-venta select.
const (
	LineaMontacargas = "MONT"
	LineaServicios   = "SERV"
	LineaSoluciones  = "SOLU"
)

// ClassifyLineaVenta maps the free-text sales line onto the portal's three
// fixed codes by keyword.
func ClassifyLineaVenta(linea string) string {
	n := textmatch.Normalize(linea)
	switch {
	case strings.Contains(n, "MONTACARGAS") || strings.Contains(n, "ALQUILER"):
		return LineaMontacargas
	case strings.Contains(n, "MANTENIMIENTO"):
		return LineaServicios
	case strings.Contains(n, "VENTA"):
		return LineaSoluciones
	default:
		return LineaSoluciones
	}
}

// TipoClienteValue resolves the tipo-de-cliente select value. Unmapped or
// empty categories fall back to the configured default.
func TipoClienteValue(tipo string, m config.Maps) string {
	if v, ok := m.TipoCliente[textmatch.Normalize(tipo)]; ok {
		return v
	}
	return m.TipoClienteDefault
}

// AgentCode resolves an assigned-agent name to its portal code, falling back
// to a fuzzy match against the map keys. Unlike city matching, a zero score
// is rejected: guessing an agent is worse than leaving the field unset.
func AgentCode(nombre string, agentes map[string]string) (string, bool) {
	n := textmatch.Normalize(nombre)
	if n == "" || len(agentes) == 0 {
		return "", false
	}
	if code, ok := agentes[n]; ok {
		return code, true
	}

	names := make([]string, 0, len(agentes))
	for name := range agentes {
		names = append(names, name)
	}
	sort.Strings(names)

	candidates := make([]textmatch.Candidate, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, textmatch.Candidate{Label: name, Value: agentes[name]})
	}
	best, score, ok := textmatch.Best(nombre, candidates)
	if !ok || score == 0 {
		return "", false
	}
	return best.Value, true
}
