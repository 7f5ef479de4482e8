// Package version compares package version strings the way the registry
// reports them: semantic-ish, tolerant of non-numeric garbage. Each string is
// reduced to a tuple of integers (the leading digit run of every dot-separated
// component, zero when a component has none) and tuples are compared
// lexicographically with zero padding. Malformed input degrades to an all-zero
// tuple, never an error.
package version

import "strings"

// IsOutdated reports whether installed is strictly older than latest.
func IsOutdated(installed, latest string) bool {
	return Compare(installed, latest) < 0
}

// Compare returns -1, 0 or 1 as a sorts before, equal to, or after b.
func Compare(a, b string) int {
	ta := parseTuple(a)
	tb := parseTuple(b)

	n := len(ta)
	if len(tb) > n {
		n = len(tb)
	}
	for i := 0; i < n; i++ {
		var va, vb int
		if i < len(ta) {
			va = ta[i]
		}
		if i < len(tb) {
			vb = tb[i]
		}
		if va < vb {
			return -1
		}
		if va > vb {
			return 1
		}
	}
	return 0
}

// parseTuple extracts the leading run of digits from each dot-separated
// component. "1.2rc1" becomes [1 2], "abc" becomes [0].
func parseTuple(v string) []int {
	parts := strings.Split(v, ".")
	tuple := make([]int, len(parts))
	for i, part := range parts {
		tuple[i] = leadingDigits(part)
	}
	return tuple
}

func leadingDigits(s string) int {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}
	n := 0
	for i := start; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		// Clamp instead of overflowing on absurd inputs.
		if n > 1<<28 {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}
