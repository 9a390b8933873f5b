// Package validate gates payment form data before it is allowed near the
// network: the Luhn checksum, the expiry check and a declarative schema that
// composes them with per-field rules.
package validate

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{13,19}$`)
	cardHolderPattern = regexp.MustCompile(`^[a-zA-ZğüşıöçĞÜŞİÖÇ\s]+$`)
	expMonthPattern   = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	expYearPattern    = regexp.MustCompile(`^20[2-9]\d$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidateCardNumberLuhn reports whether cardNumber is a plausible card
// number: 13-19 digits (whitespace ignored) passing the standard mod-10
// checksum.
func ValidateCardNumberLuhn(cardNumber string) bool {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cardNumber)

	if !cardNumberPattern.MatchString(digits) {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidateExpireDate reports whether (month, year) is the current month or
// later. The card stays valid through the end of its expiry month.
func ValidateExpireDate(month, year string, now time.Time) bool {
	expMonth, err := strconv.Atoi(month)
	if err != nil || expMonth < 1 || expMonth > 12 {
		return false
	}
	expYear, err := strconv.Atoi(year)
	if err != nil {
		return false
	}

	if expYear < now.Year() {
		return false
	}
	if expYear == now.Year() && expMonth < int(now.Month()) {
		return false
	}
	return true
}

// Form is the raw, canonical form state the schema validates. Card fields
// arrive digit-only: the input widgets strip display formatting before
// reporting values upward.
type Form struct {
	Amount         decimal.Decimal `json:"amount" validate:"required,gt=0,gte=0.01,lte=999999.99"`
	Currency       string          `json:"currency" validate:"required,oneof=TRY USD EUR GBP"`
	Provider       string          `json:"provider" validate:"required,oneof=CRAFTGATE AKBANK"`
	BuyerID        string          `json:"buyerId" validate:"required,max=100"`
	CardHolderName string          `json:"cardHolderName" validate:"required,min=2,max=100,cardholder"`
	CardNumber     string          `json:"cardNumber" validate:"required,min=13,max=19,cardnumber"`
	ExpireMonth    string          `json:"expireMonth" validate:"required,expmonth"`
	ExpireYear     string          `json:"expireYear" validate:"required,expyear,notpastyear"`
	CVV            string          `json:"cvv" validate:"required,cvv"`
}

// FieldError is one field-scoped validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the ordered set of field errors for one validation run. A nil
// Errors means the form is valid.
type Errors []FieldError

// Get returns the message for field, or "" when the field has no error.
func (e Errors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func (e Errors) Error() string {
	if len(e) == 0 {
		return "form is valid"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Schema validates a Form against the full field-level rule set plus the
// cross-field expiry rule. The clock is injected so expiry boundaries are
// testable.
type Schema struct {
	v   *validator.Validate
	now func() time.Time
}

// NewSchema builds the schema with the given clock. A nil clock means
// time.Now.
func NewSchema(now func() time.Time) *Schema {
	if now == nil {
		now = time.Now
	}
	s := &Schema{now: now}

	v := validator.New(validator.WithRequiredStructEnabled())

	// report field paths by json tag
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// treat decimal amounts as numbers for the builtin range tags
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterValidation("cardholder", func(fl validator.FieldLevel) bool {
		return cardHolderPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return ValidateCardNumberLuhn(fl.Field().String())
	})
	v.RegisterValidation("expmonth", func(fl validator.FieldLevel) bool {
		return expMonthPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("expyear", func(fl validator.FieldLevel) bool {
		return expYearPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("notpastyear", func(fl validator.FieldLevel) bool {
		year, err := strconv.Atoi(fl.Field().String())
		if err != nil {
			return false
		}
		return year >= s.now().Year()
	})
	v.RegisterValidation("cvv", func(fl validator.FieldLevel) bool {
		return cvvPattern.MatchString(fl.Field().String())
	})

	// cross-field rule: month and year expire together; failures attach to
	// the month field
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(Form)
		if !expMonthPattern.MatchString(f.ExpireMonth) || !expYearPattern.MatchString(f.ExpireYear) {
			return
		}
		if !ValidateExpireDate(f.ExpireMonth, f.ExpireYear, s.now()) {
			sl.ReportError(f.ExpireMonth, "expireMonth", "ExpireMonth", "expired", "")
		}
	}, Form{})

	s.v = v
	return s
}

// Validate runs the full rule set synchronously. It returns nil when the
// form is valid, otherwise the ordered field error set. There is no partial
// success: a form with any error must not be submitted.
func (s *Schema) Validate(f Form) Errors {
	err := s.v.Struct(f)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Field: "form", Message: err.Error()}}
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if out.Get(field) != "" {
			continue
		}
		out = append(out, FieldError{Field: field, Message: messageFor(field, fe.Tag())})
	}
	return out
}

func messageFor(field, tag string) string {
	switch field {
	case "amount":
		switch tag {
		case "gte":
			return "Minimum amount is 0.01"
		case "lte":
			return "Amount is too large"
		}
		return "Amount must be greater than 0"
	case "currency":
		return "Please select a currency"
	case "provider":
		return "Please select a payment provider"
	case "buyerId":
		if tag == "max" {
			return "Buyer ID is too long"
		}
		return "Buyer ID is required"
	case "cardHolderName":
		switch tag {
		case "min", "required":
			return "Card holder name must be at least 2 characters"
		case "max":
			return "Card holder name is too long"
		}
		return "Card holder name can only contain letters"
	case "cardNumber":
		switch tag {
		case "min", "required":
			return "Card number must be at least 13 digits"
		case "max":
			return "Card number must not exceed 19 digits"
		}
		return "Invalid card number (failed Luhn check)"
	case "expireMonth":
		if tag == "expired" {
			return "Card has expired"
		}
		return "Invalid month (use 01-12)"
	case "expireYear":
		if tag == "notpastyear" {
			return "Card has expired"
		}
		return "Invalid year (format: 20XX)"
	case "cvv":
		return "CVV must be 3 or 4 digits"
	}
	return "Invalid value"
}
