package portal

import "testing"

const listingFixture = `
<html><body>
<table>
  <thead><tr><th>Ticket</th><th>Fecha</th><th>Estado</th><th>NIT</th><th>Empresa</th></tr></thead>
  <tbody>
    <tr><td>T-4012</td><td>2026-02-10</td><td>Abierto</td><td>900123456</td><td>ACME S.A.S</td></tr>
    <tr><td>T-4011</td><td>2026-02-10</td><td>Abierto</td><td>830987654</td><td>Transportes Andinos Ltda</td></tr>
    <tr><td colspan="5">sin registros adicionales</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseListingRows(t *testing.T) {
	rows, err := parseListingRows(listingFixture)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Ticket != "T-4012" || rows[0].Nit != "900123456" || rows[0].Empresa != "ACME S.A.S" {
		t.Fatalf("first row parsed wrong: %+v", rows[0])
	}
}

func TestMatchListingRowByNit(t *testing.T) {
	rows := []listingRow{{Ticket: "T1", Nit: "900", Empresa: "ACME"}}
	ticket, ok := matchListingRow(rows, "900", "")
	if !ok || ticket != "T1" {
		t.Fatalf("got (%q, %v), want (T1, true)", ticket, ok)
	}
}

func TestMatchListingRowByEmpresa(t *testing.T) {
	rows := []listingRow{
		{Ticket: "T1", Nit: "900", Empresa: "ACME S.A.S"},
		{Ticket: "T2", Nit: "830", Empresa: "Transportes Andinos Ltda"},
	}

	ticket, ok := matchListingRow(rows, "111", "transportes andinos ltda")
	if !ok || ticket != "T2" {
		t.Fatalf("exact normalized empresa: got (%q, %v)", ticket, ok)
	}

	ticket, ok = matchListingRow(rows, "111", "ACME")
	if !ok || ticket != "T1" {
		t.Fatalf("substring empresa: got (%q, %v)", ticket, ok)
	}
}

func TestResolveTicket(t *testing.T) {
	rows := []listingRow{
		{Ticket: "T-4012", Nit: "900123456", Empresa: "ACME S.A.S"},
		{Ticket: "T-4011", Nit: "830987654", Empresa: "Transportes Andinos Ltda"},
	}

	cases := []struct {
		name         string
		rows         []listingRow
		nit, empresa string
		wantTicket   string
		wantDegraded bool
		wantErr      error
	}{
		{
			name: "matched row wins", rows: rows,
			nit: "830987654", wantTicket: "T-4011",
		},
		{
			name: "unmatched listing falls back to first row", rows: rows,
			nit: "555", empresa: "NADA QUE VER",
			wantTicket: "T-4012", wantDegraded: true,
		},
		{
			name: "empty listing is fatal", rows: nil,
			nit: "900123456", empresa: "ACME S.A.S",
			wantErr: ErrNoRows,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket, degraded, err := resolveTicket(tc.rows, tc.nit, tc.empresa)
			if err != tc.wantErr {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if ticket != tc.wantTicket {
				t.Fatalf("ticket = %q, want %q", ticket, tc.wantTicket)
			}
			if degraded != tc.wantDegraded {
				t.Fatalf("degraded = %v, want %v", degraded, tc.wantDegraded)
			}
		})
	}
}

func TestMatchListingRowNoHit(t *testing.T) {
	rows := []listingRow{{Ticket: "T1", Nit: "900", Empresa: "ACME"}}
	if _, ok := matchListingRow(rows, "555", "NADA QUE VER"); ok {
		t.Fatal("expected no match; the caller owns the degraded fallback")
	}
	if _, ok := matchListingRow(nil, "900", "ACME"); ok {
		t.Fatal("expected no match on empty rows")
	}
}
