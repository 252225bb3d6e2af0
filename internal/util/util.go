// Package util provides common utility functions used across the recorder.
package util

import (
	"fmt"
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// ParseBracketedFloats parses a stringified number array as sent by the
// game runtime. Input format: [0.12,-3.5,4200]
func ParseBracketedFloats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("not a bracketed array: %q", s)
	}

	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []float64{}, nil
	}

	parts := strings.Split(inner, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing array element %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// FormatCauseText builds a display string for a damage event.
// Format: "Cause @ speed km/h" with zero speed omitted.
func FormatCauseText(cause string, impactSpeedKPH float64) string {
	if impactSpeedKPH <= 0 {
		return cause
	}
	return fmt.Sprintf("%s @ %.0f km/h", cause, impactSpeedKPH)
}
