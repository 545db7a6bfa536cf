package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Name envelope, in characters after trimming
const (
	minNameLen = 4
	maxNameLen = 99
)

// maxVehicleTextLen bounds make and model captures
const maxVehicleTextLen = 49

// minNarrativeLen is the shortest accepted incident description, exclusive
const minNarrativeLen = 10

// rejectedReports are literals that mean "no report"
var rejectedReports = map[string]bool{
	"not":  true,
	"none": true,
	"n/a":  true,
}

// verbatim accepts the first group trimmed
func verbatim(groups []string) (string, bool) {
	v := strings.TrimSpace(first(groups))
	return v, v != ""
}

// name accepts person names within the length envelope
func name(groups []string) (string, bool) {
	v := strings.TrimSpace(first(groups))
	n := utf8.RuneCountInString(v)
	return v, n >= minNameLen && n <= maxNameLen
}

// shortText accepts vehicle make and model captures
func shortText(groups []string) (string, bool) {
	v := strings.TrimSpace(first(groups))
	return v, v != "" && utf8.RuneCountInString(v) <= maxVehicleTextLen
}

// reportNumber rejects placeholder literals
func reportNumber(groups []string) (string, bool) {
	v, ok := verbatim(groups)
	if !ok || rejectedReports[strings.ToLower(v)] {
		return "", false
	}
	return v, true
}

// joinGroups joins every non-empty group with a single space, e.g. "10:15" + "AM"
func joinGroups(groups []string) (string, bool) {
	var parts []string
	for _, g := range groups {
		if g = strings.TrimSpace(g); g != "" {
			parts = append(parts, g)
		}
	}
	v := strings.Join(parts, " ")
	return v, v != ""
}

// narrative collapses whitespace and rejects trivially short text
func narrative(groups []string) (string, bool) {
	v := collapseSpace(first(groups))
	return v, utf8.RuneCountInString(v) > minNarrativeLen
}

// amount strips thousands separators and accepts non-negative decimals.
// The canonical decimal string is returned.
func amount(groups []string) (string, bool) {
	d, ok := parseAmount(first(groups))
	if !ok {
		return "", false
	}
	return d.String(), true
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// listItems splits a delimited list, dropping placeholders
func listItems(s string) []string {
	var out []string
	for _, item := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		item = strings.TrimSpace(item)
		if item == "" || rejectedReports[strings.ToLower(item)] {
			continue
		}
		out = append(out, item)
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func first(groups []string) string {
	if len(groups) == 0 {
		return ""
	}
	return groups[0]
}

// joinNonEmpty joins trimmed parts, skipping empty ones
func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// collapsed accepts the first group with inner whitespace collapsed
func collapsed(groups []string) (string, bool) {
	v := collapseSpace(first(groups))
	return v, v != ""
}
