package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"1", "1.00", nil},
		{"1.0", "1.00", nil},
		{"1.23", "1.23", nil},
		{"1,23", "1.23", nil},
		{"0.01", "0.01", nil},
		{"1.005", "1.01", nil}, // half-up rounding
		{"1.004", "1.00", nil},
		{" 2.50 ", "2.50", nil},
		{".5", "0.50", nil},
		{"0", "0.00", nil},
		{"-1", "", ErrNegative},
		{"", "", ErrEmpty},
		{"   ", "", ErrEmpty},
		{"abc", "", ErrInvalid},
		{"1.2.3", "", ErrInvalid},
		{"1e3", "", ErrInvalid},
		{"+5", "", ErrInvalid},
		{".", "", ErrInvalid},
		{"NaN", "", ErrInvalid},
		{"9999999999999.99", "9999999999999.99", nil},
		{"10000000000000", "", ErrTooLarge},
		{"100000000000000000000", "", ErrInvalid},
		{"9999999999999.995", "", ErrTooLarge}, // rounds past the limit
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tc.in, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
			}
			if Format(got) != tc.want {
				t.Errorf("Parse(%q) = %s, want %s", tc.in, Format(got), tc.want)
			}
		})
	}
}

func TestMinorUnitConversions(t *testing.T) {
	cases := []struct {
		in    string
		minor int64
	}{
		{"100", 10000},
		{"33.33", 3333},
		{"0.01", 1},
		{"0.005", 1},
		{"0.004", 0},
		{"12.345", 1235},
	}

	for _, tc := range cases {
		d := decimal.RequireFromString(tc.in)
		if got, ok := ToMinor(d); !ok || got != tc.minor {
			t.Errorf("ToMinor(%s) = %d, %v, want %d", tc.in, got, ok, tc.minor)
		}
	}

	if got := FromMinor(3334); !got.Equal(decimal.RequireFromString("33.34")) {
		t.Errorf("FromMinor(3334) = %s, want 33.34", got)
	}
	if got := Format(FromMinor(10000)); got != "100.00" {
		t.Errorf("Format(FromMinor(10000)) = %s, want 100.00", got)
	}
}

func TestToMinorRange(t *testing.T) {
	cases := []struct {
		in     string
		minor  int64
		wantOK bool
	}{
		{"9999999999999.99", MaxMinor, true},
		{"-9999999999999.99", -MaxMinor, true},
		{"10000000000000", 0, false},
		{"92233720368547758.08", 0, false},
		{"100000000000000000000", 0, false},
		{"-100000000000000000000", 0, false},
	}

	for _, tc := range cases {
		got, ok := ToMinor(decimal.RequireFromString(tc.in))
		if ok != tc.wantOK || got != tc.minor {
			t.Errorf("ToMinor(%s) = %d, %v, want %d, %v", tc.in, got, ok, tc.minor, tc.wantOK)
		}
	}
}

func TestWithin(t *testing.T) {
	d := decimal.RequireFromString
	cases := []struct {
		a, b string
		want bool
	}{
		{"100", "100.00", true},
		{"99.99", "100", true},
		{"100.01", "100", true},
		{"99.98", "100", false},
		{"90", "100", false},
		{"100000000000000000000", "100000000000000000000.01", true},
		{"100000000000000000000", "0", false},
	}

	for _, tc := range cases {
		if got := Within(d(tc.a), d(tc.b)); got != tc.want {
			t.Errorf("Within(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSum(t *testing.T) {
	got := Sum(decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2"))
	if !got.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("Sum(0.1, 0.2) = %s, want 0.3", got)
	}
	if !Sum().IsZero() {
		t.Error("Sum() should be zero")
	}
}
