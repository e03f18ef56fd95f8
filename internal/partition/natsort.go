package partition

import (
	"slices"
	"strings"
)

// NaturalCompare orders strings so that embedded digit runs compare by
// numeric value: "clip9" < "clip10". At the same position a digit run sorts
// before text. Equal numeric values with different zero padding order the
// shorter run first; remaining ties fall back to a plain byte comparison.
func NaturalCompare(a, b string) int {
	ai, bi := 0, 0
	padding := 0
	for ai < len(a) && bi < len(b) {
		ca, cb := a[ai], b[bi]
		da, db := isDigit(ca), isDigit(cb)

		switch {
		case da && db:
			aj := digitEnd(a, ai)
			bj := digitEnd(b, bi)
			if c := compareDigits(a[ai:aj], b[bi:bj]); c != 0 {
				return c
			}
			if padding == 0 {
				padding = (aj - ai) - (bj - bi)
			}
			ai, bi = aj, bj
		case da:
			return -1
		case db:
			return 1
		default:
			aj := textEnd(a, ai)
			bj := textEnd(b, bi)
			if c := strings.Compare(a[ai:aj], b[bi:bj]); c != 0 {
				return c
			}
			ai, bi = aj, bj
		}
	}

	switch {
	case ai < len(a):
		return 1
	case bi < len(b):
		return -1
	case padding < 0:
		return -1
	case padding > 0:
		return 1
	}
	return strings.Compare(a, b)
}

// NaturalSort sorts names in place using NaturalCompare.
func NaturalSort(names []string) {
	slices.SortStableFunc(names, NaturalCompare)
}

// compareDigits compares two digit runs by numeric value without parsing,
// so arbitrarily long runs never overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func digitEnd(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func textEnd(s string, i int) int {
	for i < len(s) && !isDigit(s[i]) {
		i++
	}
	return i
}
