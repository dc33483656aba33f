package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"1", "1.000"},
		{"1.23", "1.230"},
		{"1,23", "1.230"},
		{"0.0005", "0.001"}, // half-up on the fourth place
		{"12.3456", "12.346"},
		{" 2.50 ", "2.500"},
		{"-1", "0.000"}, // negative coerced to zero
		{"abc", "0.000"},
		{"", "0.000"},
		{"1.2.3", "0.000"},
	}
	for _, tc := range cases {
		if got := FormatAmount(ParseAmount(tc.in)); got != tc.out {
			t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got)
		}
	}
}
