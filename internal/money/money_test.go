package money

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{"", 0},
		{"  ", 0},
		{"12", 1200},
		{"12.5", 1250},
		{"12.50", 1250},
		{"0.05", 5},
		{".5", 50},
		{"-3", -300},
		{"+7.25", 725},
		{"١٢٫٥", 1250},
		{"۱۰", 1000},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"abc", "1.2.3", "1.234", "-", ".", "12a", "1,5", "9999999999999"} {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Parse(%q) error = %v, want ErrInvalidAmount", in, err)
		}
	}
}

func TestString(t *testing.T) {
	cases := map[Amount]string{
		0:     "0.00",
		5:     "0.05",
		1250:  "12.50",
		-1250: "-12.50",
	}
	for in, want := range cases {
		if got := in.String(); got != want {
			t.Fatalf("Amount(%d).String() = %q, want %q", in, got, want)
		}
	}
}

func TestProrate(t *testing.T) {
	rate := Amount(2000) // 20.00 per hour
	if got := rate.Prorate(3600, 3600); got != 2000 {
		t.Fatalf("full hour = %d, want 2000", got)
	}
	if got := rate.Prorate(90*60, 3600); got != 3000 {
		t.Fatalf("ninety minutes = %d, want 3000", got)
	}
	// 20.00/h for 1s is 0.5556 minor units, rounds to 1.
	if got := rate.Prorate(1, 3600); got != 1 {
		t.Fatalf("one second = %d, want 1", got)
	}
	// 18.00/h for 1s is exactly half a minor unit.
	if got := Amount(1800).Prorate(1, 3600); got != 1 {
		t.Fatalf("half unit = %d, want 1", got)
	}
	if got := rate.Prorate(10, 0); got != 0 {
		t.Fatalf("zero denominator = %d, want 0", got)
	}
}

func TestFromMajor(t *testing.T) {
	if got := FromMajor(10.005); got != 1001 && got != 1000 {
		t.Fatalf("FromMajor(10.005) = %d", got)
	}
	if got := FromMajor(2.5); got != 250 {
		t.Fatalf("FromMajor(2.5) = %d, want 250", got)
	}
	if got := Amount(1999).Major(); got != 19.99 {
		t.Fatalf("Major = %v, want 19.99", got)
	}
}

func TestFormatterUsesLabel(t *testing.T) {
	f, err := NewFormatter("en", "EGP", "ج.م")
	if err != nil {
		t.Fatalf("new formatter: %v", err)
	}
	if got := f.Format(1250); got != "12.50 ج.م" {
		t.Fatalf("Format = %q", got)
	}
	if got := f.Label(); got != "ج.م" {
		t.Fatalf("Label = %q", got)
	}
	if got := f.WithLabel("LE").Format(300); got != "3.00 LE" {
		t.Fatalf("WithLabel Format = %q", got)
	}
}

func TestFormatterRejectsUnknownCurrency(t *testing.T) {
	if _, err := NewFormatter("en", "ZZZ", ""); err == nil {
		t.Fatalf("expected error for unknown currency")
	}
	if _, err := NewFormatter("not a tag!", "EGP", ""); err == nil {
		t.Fatalf("expected error for bad locale")
	}
}

func TestFormatterFallsBackToCurrencyCode(t *testing.T) {
	f := MustFormatter("en", "", "")
	if got := f.Label(); got != "EGP" {
		t.Fatalf("Label = %q, want EGP", got)
	}
}

func TestDecimal(t *testing.T) {
	if got := Amount(1250).Decimal().String(); got != "12.5" {
		t.Fatalf("Decimal = %s, want 12.5", got)
	}
	if got := Amount(-5).String(); got != "-0.05" {
		t.Fatalf("String = %q, want -0.05", got)
	}
}
