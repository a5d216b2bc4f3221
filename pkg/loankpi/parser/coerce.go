package parser

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Kind is the expected value kind of a field.
type Kind string

const (
	// KindNumeric is a plain number.
	KindNumeric Kind = "numeric"
	// KindCurrency is a number that may be stored as formatted text such as "$1,234.56".
	KindCurrency Kind = "currency"
	// KindCategory is a label mapped through a synonym table.
	KindCategory Kind = "category"
	// KindLabel is free text such as a branch or school name.
	KindLabel Kind = "label"
)

// Canonical category labels.
const (
	Female = "FEMALE"
	Male   = "MALE"
	Yes    = "YES"
	No     = "NO"
)

// GenderSynonyms maps uppercased gender spellings to canonical labels.
var GenderSynonyms = map[string]string{
	"F":      Female,
	"FEMALE": Female,
	"M":      Male,
	"MALE":   Male,
}

// YesNoSynonyms maps uppercased yes/no spellings to canonical labels.
var YesNoSynonyms = map[string]string{
	"Y":   Yes,
	"YES": Yes,
	"N":   No,
	"NO":  No,
}

// Range is an inclusive acceptable value range.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// CoerceNumber turns a cell into a number. A cell stored as a number is
// parsed from its raw value. Any other cell has every character that is not
// a digit or a decimal point stripped from its text before parsing, so text
// such as "-5" reads as 5. NaN, infinities, values outside rng and, when
// positive is set, values <= 0 yield ok=false.
func CoerceNumber(c Cell, rng *Range, positive bool) (v float64, ok bool) {
	if c.Empty() {
		return 0, false
	}

	var err error
	if c.Number {
		v, err = strconv.ParseFloat(strings.TrimSpace(c.Raw), 64)
	}
	if !c.Number || err != nil {
		v, err = strconv.ParseFloat(stripNonNumeric(c.Label()), 64)
		if err != nil {
			return 0, false
		}
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if positive && v <= 0 {
		return 0, false
	}
	if rng != nil && !rng.Contains(v) {
		return 0, false
	}
	return v, true
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CoerceCategory uppercases and trims the cell text and looks it up in
// synonyms. Unrecognised text yields ok=false.
func CoerceCategory(c Cell, synonyms map[string]string) (label string, ok bool) {
	key := strings.ToUpper(c.Label())
	if key == "" {
		return "", false
	}
	label, ok = synonyms[key]
	return label, ok
}

// CoerceLabel returns the NFKC-normalised cell text with runs of whitespace
// collapsed. With title set, each word is title-cased.
func CoerceLabel(c Cell, title bool) (label string, ok bool) {
	s := NormalizeLabel(c.Label())
	if s == "" {
		return "", false
	}
	if title {
		s = cases.Title(language.Und).String(s)
	}
	return s, true
}

// NormalizeLabel trims s, collapses internal whitespace and applies NFKC.
func NormalizeLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return norm.NFKC.String(s)
}
