package stp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseNodeID parses a positive node id.
func parseNodeID(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", tok)
	}
	if n < 1 {
		return 0, fmt.Errorf("node id %d must be positive", n)
	}
	return n, nil
}

// parseCount parses a non-negative header count.
func parseCount(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", tok)
	}
	if n < 0 {
		return 0, fmt.Errorf("count %d must not be negative", n)
	}
	return n, nil
}

// parseCost parses a finite floating-point cost.
func parseCost(tok string) (float64, error) {
	c, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", tok)
	}
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, fmt.Errorf("cost %q is not finite", tok)
	}
	return c, nil
}

// unquote strips one pair of surrounding double quotes. Values without
// quotes are returned as they are.
func unquote(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1], true
	}
	return s, !strings.Contains(s, `"`)
}
