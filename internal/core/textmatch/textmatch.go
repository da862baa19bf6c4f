// Package textmatch implements the diacritic-insensitive comparison used
// to map free-text input onto the portal's fixed dropdown values.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Candidate is one (label, value) pair scraped live from a select control.
// Candidates are never cached across runs.
type Candidate struct {
	Label string
	Value string
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize strips diacritics, upper-cases and trims. It is idempotent.
func Normalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// Score compares two normalized strings. Exact equality scores 1.0,
// containment either direction 0.8, anything else 0. Intentionally coarse:
// the portal's value spaces are small and edit distance would only invite
// wrong matches between similar city names.
func Score(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}
	return 0
}

// Best returns the highest-scoring candidate for query, with its score.
// Ties keep the first-encountered candidate. ok is false only when the
// candidate set is empty; callers that require a positive match must also
// check the returned score.
func Best(query string, candidates []Candidate) (best Candidate, score float64, ok bool) {
	if len(candidates) == 0 {
		return Candidate{}, 0, false
	}
	q := Normalize(query)
	best = candidates[0]
	score = Score(q, Normalize(best.Label))
	for _, c := range candidates[1:] {
		if s := Score(q, Normalize(c.Label)); s > score {
			best, score = c, s
		}
	}
	return best, score, true
}

// SplitName splits a full name into the portal's first/last name fields by
// word count: one word is all first name, two split evenly, three keep a
// two-word last name, four or more keep two words on each side with the
// remainder in the last name.
func SplitName(full string) (first, last string) {
	words := strings.Fields(strings.TrimSpace(full))
	switch len(words) {
	case 0:
		return "", ""
	case 1:
		return words[0], ""
	case 2:
		return words[0], words[1]
	case 3:
		return words[0], strings.Join(words[1:], " ")
	default:
		return strings.Join(words[:2], " "), strings.Join(words[2:], " ")
	}
}
