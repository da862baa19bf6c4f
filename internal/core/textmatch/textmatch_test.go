package textmatch

import "testing"

func TestNormalizeStripsAccentsAndCase(t *testing.T) {
	cases := map[string]string{
		"  Bogotá D.C. ": "BOGOTA D.C.",
		"Medellín":       "MEDELLIN",
		"cali":           "CALI",
		"":               "",
		"   ":            "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"Bogotá D.C.", "  ñuñoa ", "JOSÉ MARÍA", "plain"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestScore(t *testing.T) {
	if got := Score("BOGOTA", "BOGOTA"); got != 1.0 {
		t.Fatalf("equal strings: got %v, want 1.0", got)
	}
	if got := Score("BOGOTA", "BOGOTA D.C."); got != 0.8 {
		t.Fatalf("containment: got %v, want 0.8", got)
	}
	if got := Score("BOGOTA D.C.", "BOGOTA"); got != 0.8 {
		t.Fatalf("containment reversed: got %v, want 0.8", got)
	}
	if got := Score("CALI", "PASTO"); got != 0 {
		t.Fatalf("unrelated: got %v, want 0", got)
	}
}

func TestBestResolvesCityValue(t *testing.T) {
	candidates := []Candidate{
		{Label: "Bogotá D.C.", Value: "11"},
		{Label: "Medellín", Value: "05"},
	}
	best, score, ok := Best("bogota", candidates)
	if !ok {
		t.Fatal("expected a candidate")
	}
	if best.Value != "11" {
		t.Fatalf("got value %q, want 11", best.Value)
	}
	if score != 0.8 {
		t.Fatalf("got score %v, want 0.8", score)
	}
}

func TestBestEmptySet(t *testing.T) {
	if _, _, ok := Best("bogota", nil); ok {
		t.Fatal("expected ok=false for empty candidate set")
	}
}

func TestBestKeepsFirstOnTie(t *testing.T) {
	candidates := []Candidate{
		{Label: "SUR", Value: "a"},
		{Label: "SUR", Value: "b"},
	}
	best, _, _ := Best("sur", candidates)
	if best.Value != "a" {
		t.Fatalf("tie should keep first candidate, got %q", best.Value)
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in, first, last string
	}{
		{"Ana", "Ana", ""},
		{"Ana Gomez", "Ana", "Gomez"},
		{"Ana Maria Gomez", "Ana", "Maria Gomez"},
		{"Ana Maria Gomez Ruiz", "Ana Maria", "Gomez Ruiz"},
		{"Ana Maria Gomez Ruiz Segunda", "Ana Maria", "Gomez Ruiz Segunda"},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, last := SplitName(tc.in)
		if first != tc.first || last != tc.last {
			t.Fatalf("SplitName(%q) = (%q, %q), want (%q, %q)", tc.in, first, last, tc.first, tc.last)
		}
	}
}
