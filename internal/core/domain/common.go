package domain

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// DateLayout is the calendar date format used in reports and rate lookups.
const DateLayout = "2006-01-02"

// CompareIDs orders order and material identifiers.
// Integer ids sort before every other id and compare numerically among themselves; ids that
// are numerically equal but spelled differently ("007" and "7") fall back to the lexical
// order. Non-integer ids compare lexically.
func CompareIDs(a, b string) int {
	ai, aok := parseIntegerID(a)
	bi, bok := parseIntegerID(b)
	switch {
	case aok && bok:
		if c := ai.Cmp(bi); c != 0 {
			return c
		}
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(a, b)
}

func parseIntegerID(id string) (*big.Int, bool) {
	return new(big.Int).SetString(strings.TrimSpace(id), 10)
}

// orderDateLayouts are the accepted spellings of an order date, most specific last.
var orderDateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"02/01/2006",
}

// ParseOrderDate parses an order date written in any of the accepted layouts.
func ParseOrderDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
