package ingest

import (
	"strconv"
	"strings"
)

// NormalizeFields splits raw row cells into sparse numeric metrics and
// string attributes. Empty cells are dropped entirely. A cell containing
// only digits, optional thousands separators, and at most one decimal point
// is parsed as a number; anything else stays a string. The columns named in
// skip (the identity columns) are never treated as metrics.
func NormalizeFields(row map[string]string, skip ...string) (map[string]float64, map[string]string) {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}

	metrics := make(map[string]float64)
	attrs := make(map[string]string)

	for field, raw := range row {
		if skipped[field] {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if n, ok := parseNumeric(value); ok {
			metrics[field] = n
		} else {
			attrs[field] = value
		}
	}
	return metrics, attrs
}

// parseNumeric parses strings like "1,234,567" or "98.5" after stripping
// thousands separators. Only digits and at most one decimal point are
// accepted; a sign, exponent, or any other character disqualifies the
// value. Conversion itself is strconv's.
func parseNumeric(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(s, ",", "")

	seenDot := false
	seenDigit := false
	for _, c := range cleaned {
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.':
			if seenDot {
				return 0, false
			}
			seenDot = true
		default:
			return 0, false
		}
	}
	if !seenDigit {
		return 0, false
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
