package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	floatPrefix = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^\s*[+-]?\d+`)
)

// parseFloat reads the leading decimal number of s, so "1200km" is 1200.
// Unparsable, negative and non-finite values are 0.
func parseFloat(s string) float64 {
	m := floatPrefix.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// parseInt reads the leading integer of s, so "12.7" is 12.
// Unparsable, negative and out of range values are 0.
func parseInt(s string) int {
	m := intPrefix.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
