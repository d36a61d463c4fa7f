package netlist

import (
	"math"
	"testing"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{"10k", 10e3},
		{"4.7K", 4.7e3},
		{"1meg", 1e6},
		{"2MEG", 2e6},
		{"100n", 100e-9},
		{"2.2u", 2.2e-6},
		{"3p", 3e-12},
		{"15f", 15e-15},
		{"1.5m", 1.5e-3},
		{"2G", 2e9},
		{"1T", 1e12},
		{"-3.3", -3.3},
		{"+0.5", 0.5},
		{"1e3", 1000},
		{"1.2e-6", 1.2e-6},
		{"10kohm", 10e3},
		{"100nF", 100e-9},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.in)
		if err != nil {
			t.Errorf("ParseValue(%q): %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > math.Abs(tt.want)*1e-12 {
			t.Errorf("ParseValue(%q) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestParseValueInvalid(t *testing.T) {
	for _, in := range []string{"", "k10", "{2*R}", "'text'", "1 2", "ten"} {
		if _, err := ParseValue(in); err == nil {
			t.Errorf("ParseValue(%q): expected error", in)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{10e3, "10k"},
		{1e6, "1meg"},
		{100e-9, "100n"},
		{2.2e-6, "2.2u"},
		{1.5e-3, "1.5m"},
		{42, "42"},
		{3e-12, "3p"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%g) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, v := range []float64{10e3, 4.7e3, 1e6, 100e-9, 1.5e-3, 33} {
		got, err := ParseValue(FormatValue(v))
		if err != nil {
			t.Fatalf("ParseValue(FormatValue(%g)): %v", v, err)
		}
		if math.Abs(got-v) > v*1e-12 {
			t.Errorf("round trip %g -> %q -> %g", v, FormatValue(v), got)
		}
	}
}
