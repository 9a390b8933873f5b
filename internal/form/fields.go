package form

import (
	"strings"

	"github.com/dumensel/payment-console/internal/format"
)

// The keystroke-formatting fields own a raw digit string and derive their
// display value from it. Input always reports the cleaned digit form upward,
// never the mask, so the controller and validators only ever see canonical
// values.

// CardNumberField holds a card number as raw digits, capped at 19.
type CardNumberField struct {
	raw string
}

// Input replaces the field value with the digits found in s.
func (f *CardNumberField) Input(s string) {
	d := format.Digits(s)
	if len(d) > 19 {
		d = d[:19]
	}
	f.raw = d
}

// Raw returns the digit-only value the validators see.
func (f *CardNumberField) Raw() string { return f.raw }

// Display returns the grouped form shown to the user.
func (f *CardNumberField) Display() string { return format.FormatCardNumber(f.raw) }

// Masked returns the display form with all but the last 4 digits hidden.
func (f *CardNumberField) Masked() string { return format.MaskCardNumber(f.raw) }

// MaxLen is the widest accepted display input.
func (f *CardNumberField) MaxLen() int { return format.CardNumberDisplayWidth }

// Clear discards the card number.
func (f *CardNumberField) Clear() { f.raw = "" }

// ExpireDateField holds an expiry as raw MMYY digits, capped at 4.
type ExpireDateField struct {
	raw string
}

func (f *ExpireDateField) Input(s string) {
	d := format.Digits(s)
	if len(d) > 4 {
		d = d[:4]
	}
	f.raw = d
}

func (f *ExpireDateField) Raw() string { return f.raw }

// Display returns the MM/YY mask.
func (f *ExpireDateField) Display() string { return format.FormatExpireDate(f.raw) }

// Month returns the zero-padded 2-digit month.
func (f *ExpireDateField) Month() string {
	month, _ := format.ParseExpireDate(f.raw)
	return month
}

// Year returns the 4-digit year, or "" while the year is incomplete.
func (f *ExpireDateField) Year() string {
	_, year := format.ParseExpireDate(f.raw)
	return year
}

func (f *ExpireDateField) MaxLen() int { return format.ExpireDateDisplayWidth }

func (f *ExpireDateField) Clear() { f.raw = "" }

// CVVField holds the card verification value, capped at 4 digits. Its
// display form never reveals the digits.
type CVVField struct {
	raw string
}

func (f *CVVField) Input(s string) {
	d := format.Digits(s)
	if len(d) > 4 {
		d = d[:4]
	}
	f.raw = d
}

func (f *CVVField) Raw() string { return f.raw }

func (f *CVVField) Display() string { return strings.Repeat("*", len(f.raw)) }

func (f *CVVField) MaxLen() int { return 4 }

func (f *CVVField) Clear() { f.raw = "" }
