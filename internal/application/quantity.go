package application

import (
	"math"
	"strings"
)

// quantityValue extracts the leading integer of a free-text magnitude like
// "5 kg" or "12 loaves". Anything without a numeric prefix contributes 0.
// The field is donor-supplied text, so an absurdly long digit run saturates
// at MaxInt instead of wrapping negative.
func quantityValue(q string) int {
	q = strings.TrimSpace(q)
	n := 0
	seen := false
	for _, r := range q {
		if r < '0' || r > '9' {
			break
		}
		seen = true
		if n > (math.MaxInt-int(r-'0'))/10 {
			return math.MaxInt
		}
		n = n*10 + int(r-'0')
	}
	if !seen {
		return 0
	}
	return n
}
