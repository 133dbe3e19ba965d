package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{0: "0.00", 5: "0.05", 1250: "12.50", 100000: "1000.00"}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Fatalf("%d cents rendered %q, want %q", cents, got, want)
		}
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{`12`, 1200, true},
		{`12.5`, 1250, true},
		{`0.1`, 10, true},
		{`0.105`, 11, true},
		{`"7.25"`, 725, true},
		{`null`, 0, true},
		{`"abc"`, 0, false},
		{`true`, 0, false},
		{`92233720368547758.07`, 9223372036854775807, true},
		{`-92233720368547758.08`, -9223372036854775808, true},
		{`92233720368547758.08`, 0, false},
		{`1e30`, 0, false},
		{`-1e30`, 0, false},
	}
	for _, tc := range cases {
		var m Money
		err := json.Unmarshal([]byte(tc.in), &m)
		if tc.ok {
			if err != nil || m.Cents != tc.want {
				t.Fatalf("%s expected %d, got %d (err=%v)", tc.in, tc.want, m.Cents, err)
			}
		} else if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s expected ErrInvalidAmount, got %v (cents=%d)", tc.in, err, m.Cents)
		}
	}
}

func TestMoneyAddIsExact(t *testing.T) {
	total := Money{}
	for i := 0; i < 10; i++ {
		total = total.Add(Money{Cents: 10}) // 0.10 ten times
	}
	if total.String() != "1.00" {
		t.Fatalf("expected 1.00, got %s", total)
	}
}
