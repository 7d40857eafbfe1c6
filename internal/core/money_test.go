package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"1", "1.00"},
		{"1.234", "1.23"},
		{"1.235", "1.24"}, // half-up
		{"1.005", "1.01"},
		{"0", "0.00"},
		{"12345.678", "12345.68"},
	}
	for _, tc := range cases {
		got := RoundMoney(decimal.RequireFromString(tc.in)).StringFixed(2)
		if got != tc.out {
			t.Errorf("RoundMoney(%s) = %s, want %s", tc.in, got, tc.out)
		}
	}
}

func TestCentsRoundTrip(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"0.00", 0},
		{"0.01", 1},
		{"1234.56", 123456},
		{"5000.00", 500000},
	}
	for _, tc := range cases {
		d := decimal.RequireFromString(tc.in)
		if got := Cents(d); got != tc.cents {
			t.Errorf("Cents(%s) = %d, want %d", tc.in, got, tc.cents)
		}
		if got := FromCents(tc.cents).StringFixed(2); got != tc.in {
			t.Errorf("FromCents(%d) = %s, want %s", tc.cents, got, tc.in)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"12.34", "12.34", true},
		{"12.345", "12.35", true},
		{"0", "0.00", true},
		{"-1", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.StringFixed(2) != tc.out {
				t.Errorf("ParseAmount(%q) = %s, %v, want %s", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Errorf("ParseAmount(%q) expected error", tc.in)
		}
	}
}
