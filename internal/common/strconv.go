package common

import (
	"strconv"
	"strings"
)

// AtoiDefault parses a query value, returning def when it is blank or not a number.
func AtoiDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

// AtoiClamp is AtoiDefault bounded to [lo, hi].
func AtoiClamp(value string, def, lo, hi int) int {
	return min(max(AtoiDefault(value, def), lo), hi)
}
