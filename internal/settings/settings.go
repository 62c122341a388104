// Package settings holds the shared passcode and the display settings of the
// till. The passcode is kept only as a bcrypt hash.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultPasscode      = "1234"
	DefaultCafeName      = "BAKAR PS & CAFÉ"
	DefaultCurrencyLabel = "ج.م"
	MinPasscodeLength    = 4
)

var (
	ErrWrongPasscode      = errors.New("settings: wrong passcode")
	ErrPasscodeMismatch   = errors.New("settings: new passcode and confirmation differ")
	ErrPasscodeTooShort   = fmt.Errorf("settings: passcode must be at least %d digits", MinPasscodeLength)
	ErrPasscodeNotNumeric = errors.New("settings: passcode must contain digits only")
)

// Settings is the mutable till configuration.
type Settings struct {
	CafeName      string
	CurrencyLabel string
	hash          []byte
	cost          int
}

// Option configures New.
type Option func(*Settings)

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Settings) { s.cost = cost }
}

// New hashes the bootstrap passcode. A blank passcode uses the default.
func New(cafeName, currencyLabel, passcode string, opts ...Option) (*Settings, error) {
	s := &Settings{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	s.SetCafeName(cafeName)
	s.SetCurrencyLabel(currencyLabel)
	if strings.TrimSpace(passcode) == "" {
		passcode = DefaultPasscode
	}
	if err := ValidatePasscode(passcode); err != nil {
		return nil, err
	}
	if err := s.setPasscode(passcode); err != nil {
		return nil, err
	}
	return s, nil
}

// ValidatePasscode checks the passcode format.
func ValidatePasscode(code string) error {
	if len([]rune(code)) < MinPasscodeLength {
		return ErrPasscodeTooShort
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return ErrPasscodeNotNumeric
		}
	}
	return nil
}

func (s *Settings) setPasscode(code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cost)
	if err != nil {
		return fmt.Errorf("settings: hash passcode: %w", err)
	}
	s.hash = hash
	return nil
}

// Verify checks a passcode against the stored hash.
func (s *Settings) Verify(code string) error {
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(code)); err != nil {
		return ErrWrongPasscode
	}
	return nil
}

// ChangePasscode replaces the passcode after checking the old one, the
// confirmation and the new format, in that order.
func (s *Settings) ChangePasscode(old, next, confirm string) error {
	if err := s.Verify(old); err != nil {
		return err
	}
	if next != confirm {
		return ErrPasscodeMismatch
	}
	if err := ValidatePasscode(next); err != nil {
		return err
	}
	return s.setPasscode(next)
}

// SetCafeName changes the header name. Blank restores the default.
func (s *Settings) SetCafeName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCafeName
	}
	s.CafeName = name
}

// SetCurrencyLabel changes the label printed after amounts.
func (s *Settings) SetCurrencyLabel(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultCurrencyLabel
	}
	s.CurrencyLabel = label
}
