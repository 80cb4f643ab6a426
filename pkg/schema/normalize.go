package schema

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Pre-compiled regular expressions for name normalization.
var (
	middleInitialRe = regexp.MustCompile(`\b[a-z]\.?\s`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// Known name suffixes to strip during normalization.
var nameSuffixes = []string{"jr", "sr", "ii", "iii", "iv", "phd"}

// NormalizeName folds a display name into a comparison key:
//  1. ToLower, TrimSpace
//  2. Strip diacritics (Unicode NFD decompose, remove combining marks)
//  3. Strip suffixes (Jr, Sr, II, III, IV, PhD)
//  4. Strip middle initials
//  5. Collapse whitespace
//  6. "Last, First" -> "first last"
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return s
	}

	s = stripDiacritics(s)

	for _, suffix := range nameSuffixes {
		s = strings.TrimSuffix(s, " "+suffix)
		s = strings.TrimSuffix(s, ","+suffix)
		s = strings.TrimSuffix(s, ", "+suffix)
	}

	s = middleInitialRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")

	if parts := strings.SplitN(s, ",", 2); len(parts) == 2 {
		first := strings.TrimSpace(parts[1])
		last := strings.TrimSpace(parts[0])
		if first != "" && last != "" {
			s = first + " " + last
		}
	}

	return strings.TrimSpace(s)
}

// stripDiacritics removes diacritical marks (accents) from a string.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var result strings.Builder
	result.Grow(len(decomposed))

	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}

// dateLayouts are the export formats seen in roster date columns.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/06",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// FormatDate renders a recognised date as 2006-01-02. Values in an unknown
// format are returned trimmed but otherwise verbatim.
func FormatDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// Identifier widths used when presenting IDs to the operator.
const (
	HomeIDWidth = 9
	HostIDWidth = 7
)

// PadID left-pads a non-empty identifier with zeros to width. Exports drop
// leading zeros when opened in a spreadsheet; the padded form is what staff
// type into either system. An empty ID stays empty.
func PadID(id string, width int) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) >= width {
		return id
	}
	return strings.Repeat("0", width-len(id)) + id
}
