package application

import (
	"math"
	"strings"
	"testing"
)

func TestQuantityValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"5 kg", 5},
		{"12 loaves", 12},
		{"  20 kg ", 20},
		{"100", 100},
		{"a few boxes", 0},
		{"", 0},
		{"kg 5", 0},
		// Donor-typed digit runs saturate instead of wrapping negative.
		{strings.Repeat("9", 25) + " kg", math.MaxInt},
		{"9223372036854775807", math.MaxInt},
	}
	for _, tc := range cases {
		if got := quantityValue(tc.in); got != tc.want {
			t.Errorf("quantityValue(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
