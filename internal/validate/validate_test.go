package validate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frozen clock for expiry boundaries: June 2025
func testNow() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func TestValidateCardNumberLuhn(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{"known valid visa vector", "4532015112830366", true},
		{"single digit altered", "4532015112830367", false},
		{"craftgate success card", "5400010000000004", true},
		{"craftgate decline card is still luhn valid", "5400010000000012", true},
		{"spaces are ignored", "4532 0151 1283 0366", true},
		{"non-digit characters", "4532a15112830366", false},
		{"too short", "453201511283", false},
		{"too long", "45320151128303660000", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateCardNumberLuhn(tt.number))
		})
	}
}

func TestValidateExpireDate(t *testing.T) {
	now := testNow()

	tests := []struct {
		name  string
		month string
		year  string
		valid bool
	}{
		{"far future", "01", "2099", true},
		{"long past", "01", "2000", false},
		{"current month of current year", "06", "2025", true},
		{"previous month of current year", "05", "2025", false},
		{"next month of current year", "07", "2025", true},
		{"month zero", "00", "2099", false},
		{"month thirteen", "13", "2099", false},
		{"garbage month", "ab", "2099", false},
		{"garbage year", "01", "20xx", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateExpireDate(tt.month, tt.year, now))
		})
	}
}

func validForm() Form {
	return Form{
		Amount:         decimal.NewFromInt(100),
		Currency:       "TRY",
		Provider:       "CRAFTGATE",
		BuyerID:        "buyer-demo-123",
		CardHolderName: "John Doe",
		CardNumber:     "5400010000000004",
		ExpireMonth:    "12",
		ExpireYear:     "2029",
		CVV:            "123",
	}
}

func TestSchemaValidForm(t *testing.T) {
	s := NewSchema(testNow)
	assert.Nil(t, s.Validate(validForm()))
}

func TestSchemaFieldRules(t *testing.T) {
	s := NewSchema(testNow)

	tests := []struct {
		name    string
		mutate  func(*Form)
		field   string
		message string
	}{
		{
			name:    "luhn failure",
			mutate:  func(f *Form) { f.CardNumber = "5400010000000005" },
			field:   "cardNumber",
			message: "Invalid card number (failed Luhn check)",
		},
		{
			name:    "card number too short",
			mutate:  func(f *Form) { f.CardNumber = "540001000004" },
			field:   "cardNumber",
			message: "Card number must be at least 13 digits",
		},
		{
			name:    "zero amount",
			mutate:  func(f *Form) { f.Amount = decimal.Zero },
			field:   "amount",
			message: "Amount must be greater than 0",
		},
		{
			name:    "amount below minimum",
			mutate:  func(f *Form) { f.Amount = decimal.NewFromFloat(0.005) },
			field:   "amount",
			message: "Minimum amount is 0.01",
		},
		{
			name:    "amount above maximum",
			mutate:  func(f *Form) { f.Amount = decimal.NewFromInt(1000000) },
			field:   "amount",
			message: "Amount is too large",
		},
		{
			name:    "unknown currency",
			mutate:  func(f *Form) { f.Currency = "JPY" },
			field:   "currency",
			message: "Please select a currency",
		},
		{
			name:    "unknown provider",
			mutate:  func(f *Form) { f.Provider = "STRIPE" },
			field:   "provider",
			message: "Please select a payment provider",
		},
		{
			name:    "missing buyer",
			mutate:  func(f *Form) { f.BuyerID = "" },
			field:   "buyerId",
			message: "Buyer ID is required",
		},
		{
			name:    "holder name with digits",
			mutate:  func(f *Form) { f.CardHolderName = "John D03" },
			field:   "cardHolderName",
			message: "Card holder name can only contain letters",
		},
		{
			name:    "holder name too short",
			mutate:  func(f *Form) { f.CardHolderName = "J" },
			field:   "cardHolderName",
			message: "Card holder name must be at least 2 characters",
		},
		{
			name:    "month out of range",
			mutate:  func(f *Form) { f.ExpireMonth = "13" },
			field:   "expireMonth",
			message: "Invalid month (use 01-12)",
		},
		{
			name:    "malformed year",
			mutate:  func(f *Form) { f.ExpireYear = "29" },
			field:   "expireYear",
			message: "Invalid year (format: 20XX)",
		},
		{
			name:    "cvv too long",
			mutate:  func(f *Form) { f.CVV = "12345" },
			field:   "cvv",
			message: "CVV must be 3 or 4 digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			errs := s.Validate(f)
			require.NotNil(t, errs)
			assert.Equal(t, tt.message, errs.Get(tt.field))
		})
	}
}

func TestSchemaTurkishHolderName(t *testing.T) {
	s := NewSchema(testNow)
	f := validForm()
	f.CardHolderName = "Çağrı Gündüz"
	assert.Nil(t, s.Validate(f))
}

func TestSchemaCrossFieldExpiry(t *testing.T) {
	s := NewSchema(testNow)

	// well-formed month and year whose combination is in the past: the
	// failure lands on the month field
	f := validForm()
	f.ExpireMonth = "05"
	f.ExpireYear = "2025"

	errs := s.Validate(f)
	require.NotNil(t, errs)
	assert.Equal(t, "Card has expired", errs.Get("expireMonth"))
	assert.Empty(t, errs.Get("expireYear"))
}

func TestSchemaPastYear(t *testing.T) {
	s := NewSchema(testNow)
	f := validForm()
	f.ExpireYear = "2024"

	errs := s.Validate(f)
	require.NotNil(t, errs)
	assert.Equal(t, "Card has expired", errs.Get("expireYear"))
}

func TestSchemaNoPartialSuccess(t *testing.T) {
	s := NewSchema(testNow)
	f := validForm()
	f.CardNumber = "5400010000000005"
	f.CVV = "1"

	errs := s.Validate(f)
	require.NotNil(t, errs)
	assert.Len(t, errs, 2)
	// field order follows the form layout
	assert.Equal(t, "cardNumber", errs[0].Field)
	assert.Equal(t, "cvv", errs[1].Field)
}
