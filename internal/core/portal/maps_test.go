package portal

import (
	"testing"

	"sicbot/internal/config"
)

func TestClassifyLineaVenta(t *testing.T) {
	cases := map[string]string{
		"Alquiler montacargas":  LineaMontacargas,
		"MONTACARGAS":           LineaMontacargas,
		"alquiler":              LineaMontacargas,
		"Mantenimiento":         LineaServicios,
		"mantenimiento general": LineaServicios,
		"Servicio montacargas":  LineaMontacargas,
		"Venta":                 LineaSoluciones,
		"venta de repuestos":    LineaSoluciones,
		"":                      LineaSoluciones,
		"otra cosa":             LineaSoluciones,
	}
	for in, want := range cases {
		if got := ClassifyLineaVenta(in); got != want {
			t.Fatalf("ClassifyLineaVenta(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTipoClienteValue(t *testing.T) {
	m := config.Maps{
		TipoCliente: map[string]string{
			"NUEVO":      "1",
			"ANTIGUO":    "2",
			"FIDELIZADO": "3",
			"RECUPERADO": "4",
		},
		TipoClienteDefault: "1",
	}
	cases := map[string]string{
		"Nuevo":       "1",
		"antiguo":     "2",
		"FIDELIZADO":  "3",
		"Recuperado":  "4",
		"":            "1",
		"desconocido": "1",
	}
	for in, want := range cases {
		if got := TipoClienteValue(in, m); got != want {
			t.Fatalf("TipoClienteValue(%q) = %q, want %q", in, got, want)
		}
	}

	m.TipoClienteDefault = "2"
	if got := TipoClienteValue("desconocido", m); got != "2" {
		t.Fatalf("configured default not honored: got %q", got)
	}
}

func TestAgentCode(t *testing.T) {
	agentes := map[string]string{
		"CAROLINA PEREZ":     "12",
		"ANDRES FELIPE RIOS": "17",
	}

	code, ok := AgentCode("Carolina Pérez", agentes)
	if !ok || code != "12" {
		t.Fatalf("exact normalized match: got (%q, %v)", code, ok)
	}

	code, ok = AgentCode("CAROLINA", agentes)
	if !ok || code != "12" {
		t.Fatalf("fuzzy substring match: got (%q, %v)", code, ok)
	}

	if _, ok := AgentCode("PEDRO NADIE", agentes); ok {
		t.Fatal("unknown agent must be rejected")
	}
	if _, ok := AgentCode("", agentes); ok {
		t.Fatal("empty agent must be rejected")
	}
	if _, ok := AgentCode("CAROLINA", nil); ok {
		t.Fatal("empty map must be rejected")
	}
}
