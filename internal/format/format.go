// Package format holds the pure display transforms used by the payment entry
// form: card number grouping and masking, expiry masking, locale-aware
// currency rendering and conversation id generation.
package format

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/dumensel/payment-console/internal/domain/payment"
)

// CardNumberDisplayWidth is the widest formatted card number: 19 digits plus
// internal spaces, capped at 23 characters.
const CardNumberDisplayWidth = 23

// ExpireDateDisplayWidth is the MM/YY mask width.
const ExpireDateDisplayWidth = 5

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// group joins s into blocks of 4 separated by single spaces.
func group(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// FormatCardNumber strips non-digits and regroups into blocks of 4. The
// result is truncated to CardNumberDisplayWidth. Formatting an already
// formatted number yields the same string.
func FormatCardNumber(raw string) string {
	out := group(Digits(raw))
	if len(out) > CardNumberDisplayWidth {
		out = out[:CardNumberDisplayWidth]
	}
	return out
}

// MaskCardNumber hides all but the last 4 digits of raw, regrouped into
// blocks of 4. Fewer than 4 digits yields the fixed placeholder.
func MaskCardNumber(raw string) string {
	digits := Digits(raw)
	if len(digits) < 4 {
		return "****"
	}
	masked := strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
	out := group(masked)
	if len(out) > CardNumberDisplayWidth {
		out = out[:CardNumberDisplayWidth]
	}
	return out
}

// FormatExpireDate masks raw keystrokes into MM/YY: digits pass through
// unchanged up to 2 characters, then a slash is inserted and the value is
// truncated to 4 digits.
func FormatExpireDate(raw string) string {
	digits := Digits(raw)
	if len(digits) <= 2 {
		return digits
	}
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits[:2] + "/" + digits[2:]
}

// ParseExpireDate splits a masked expiry value into a zero-padded month and
// a 4-digit year. Years are assumed to be in the 2000s; other centuries
// mis-parse. That limitation is deliberate and mirrors the backend contract.
func ParseExpireDate(raw string) (month, year string) {
	digits := Digits(raw)

	month = digits
	if len(month) > 2 {
		month = month[:2]
	}
	for len(month) < 2 {
		month = "0" + month
	}

	if len(digits) > 2 {
		rest := digits[2:]
		if len(rest) > 2 {
			rest = rest[:2]
		}
		year = "20" + rest
	}
	return month, year
}

var printer = message.NewPrinter(language.Turkish)

// FormatCurrency renders amount with exactly 2 fraction digits, tr-TR digit
// grouping and the currency symbol. Rounding and grouping are handled by
// x/text, not by hand.
func FormatCurrency(amount decimal.Decimal, c payment.Currency) string {
	f, _ := amount.Float64()
	return printer.Sprintf("%s%v", CurrencySymbol(c),
		number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// CurrencySymbol returns the display symbol for one of the supported
// currencies. Unknown codes fall back to the code itself.
func CurrencySymbol(c payment.Currency) string {
	switch c {
	case payment.CurrencyTRY:
		return "₺"
	case payment.CurrencyUSD:
		return "$"
	case payment.CurrencyEUR:
		return "€"
	case payment.CurrencyGBP:
		return "£"
	}
	return string(c)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateConversationID produces an order correlation token of the shape
// ORDER-<millisecond timestamp>-<7 char base36 suffix>. The suffix is not
// cryptographic; it only needs to make accidental collisions unlikely.
func GenerateConversationID() string {
	suffix := make([]byte, 7)
	for i := range suffix {
		suffix[i] = base36[rand.Intn(len(base36))]
	}
	return fmt.Sprintf("ORDER-%d-%s", time.Now().UnixMilli(), suffix)
}
