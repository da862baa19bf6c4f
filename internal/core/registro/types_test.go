package registro

import "testing"

func TestNormalizeAppliesIntakeRules(t *testing.T) {
	r := Registro{
		Nit:           " 900123456 ",
		Empresa:       " acme s.a.s ",
		Ciudad:        " Bogotá ",
		Cliente:       "ana gomez",
		Celular:       " 310 555 1234 ",
		Correo:        " Ana.Gomez@ACME.com ",
		Concepto:      "cotización montacargas",
		AsignadoA:     "carolina perez",
		MedioContacto: " Whatsapp ",
		LineaVenta:    " Alquiler ",
	}
	r.Normalize()

	if r.Nit != "900123456" {
		t.Fatalf("nit: %q", r.Nit)
	}
	if r.Empresa != "ACME S.A.S" {
		t.Fatalf("empresa: %q", r.Empresa)
	}
	if r.Ciudad != "Bogotá" {
		t.Fatalf("ciudad should only be trimmed: %q", r.Ciudad)
	}
	if r.Cliente != "ANA GOMEZ" {
		t.Fatalf("cliente: %q", r.Cliente)
	}
	if r.Celular != "3105551234" {
		t.Fatalf("celular: %q", r.Celular)
	}
	if r.Correo != "ana.gomez@acme.com" {
		t.Fatalf("correo: %q", r.Correo)
	}
	if r.Concepto != "COTIZACIÓN MONTACARGAS" {
		t.Fatalf("concepto: %q", r.Concepto)
	}
	if r.AsignadoA != "CAROLINA PEREZ" {
		t.Fatalf("asignadoA: %q", r.AsignadoA)
	}
	if r.MedioContacto != "Whatsapp" {
		t.Fatalf("medioContacto: %q", r.MedioContacto)
	}
	if r.LineaVenta != "Alquiler" {
		t.Fatalf("lineaVenta: %q", r.LineaVenta)
	}
}
