package money

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is the ISO code used when none is configured.
const DefaultCurrency = "EGP"

// Formatter renders amounts for display using locale digit grouping and the
// configured currency label.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
	label   string
}

// NewFormatter builds a Formatter. locale is a BCP 47 tag, code an ISO 4217
// currency code and label the short text shown after each amount. A blank
// label falls back to the currency symbol.
func NewFormatter(locale, code, label string) (*Formatter, error) {
	tag := language.English
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		parsed, err := language.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("money: locale %q: %w", locale, err)
		}
		tag = parsed
	}
	if strings.TrimSpace(code) == "" {
		code = DefaultCurrency
	}
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("money: currency %q: %w", code, err)
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
		label:   strings.TrimSpace(label),
	}, nil
}

// MustFormatter is NewFormatter for fixed, known-good arguments.
func MustFormatter(locale, code, label string) *Formatter {
	f, err := NewFormatter(locale, code, label)
	if err != nil {
		panic(err)
	}
	return f
}

// Label returns the text appended to amounts.
func (f *Formatter) Label() string {
	if f == nil {
		return ""
	}
	if f.label != "" {
		return f.label
	}
	return f.unit.String()
}

// Number renders just the figure with two decimals and locale grouping.
func (f *Formatter) Number(a Amount) string {
	if f == nil {
		return a.String()
	}
	return f.printer.Sprintf("%.2f", a.Major())
}

// Format renders the figure followed by the label.
func (f *Formatter) Format(a Amount) string {
	if f == nil {
		return a.String()
	}
	if f.label == "" {
		return f.printer.Sprint(currency.Symbol(f.unit.Amount(a.Major())))
	}
	return f.Number(a) + " " + f.label
}

// WithLabel returns a copy of the formatter using a different label.
func (f *Formatter) WithLabel(label string) *Formatter {
	if f == nil {
		return nil
	}
	clone := *f
	clone.label = strings.TrimSpace(label)
	return &clone
}
