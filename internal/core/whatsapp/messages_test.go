package whatsapp

import (
	"strings"
	"testing"

	"sicbot/internal/config"
	"sicbot/internal/core/registro"
)

var testMaps = config.Maps{
	NombresFemeninos:  []string{"ANA", "MARIA", "CAROLINA"},
	NombresMasculinos: []string{"JUAN", "CARLOS"},
}

func TestGroupMessageTemplate(t *testing.T) {
	r := &registro.Registro{
		Nit:      "900123456",
		Empresa:  "ACME S.A.S",
		Cliente:  "ANA GOMEZ",
		Celular:  "3105551234",
		Ciudad:   "Bogotá",
		Concepto: "COTIZACIÓN MONTACARGAS",
	}
	msg := GroupMessage(r, "T-4012")

	want := []string{
		"Buen día, asignación de",
		"TICKET N° T-4012",
		"NIT: 900123456",
		"RAZÓN SOCIAL: ACME S.A.S",
		"NOMBRE DE CONTACTO: ANA GOMEZ",
		"TELÉFONO DE CONTACTO: 3105551234",
		"CIUDAD: Bogotá",
		"OBSERVACIÓN: COTIZACIÓN MONTACARGAS",
	}
	lines := strings.Split(msg, "\n")
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), msg)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestHonorific(t *testing.T) {
	cases := map[string]string{
		"Ana":      "Sra.",
		"maría":    "Sra.",
		"Juan":     "Sr.",
		"CARLOS":   "Sr.",
		"Alexis":   "Estimado(a)",
		"":         "Estimado(a)",
	}
	for in, want := range cases {
		if got := Honorific(in, testMaps); got != want {
			t.Fatalf("Honorific(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDirectMessageGreeting(t *testing.T) {
	r := &registro.Registro{Cliente: "ANA GOMEZ"}
	msg := DirectMessage(r, "T-77", testMaps)
	if !strings.HasPrefix(msg, "Buen día Sra. Ana,") {
		t.Fatalf("unexpected greeting: %q", msg)
	}
	if !strings.Contains(msg, "TICKET N° T-77") {
		t.Fatalf("ticket missing: %q", msg)
	}
}

func TestDirectMessageWithoutName(t *testing.T) {
	r := &registro.Registro{Cliente: ""}
	msg := DirectMessage(r, "T-77", testMaps)
	if !strings.HasPrefix(msg, "Buen día Estimado(a) cliente,") {
		t.Fatalf("unexpected fallback greeting: %q", msg)
	}
}
