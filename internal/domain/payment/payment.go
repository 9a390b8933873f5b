package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend API exchanges amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Currency is one of the currencies accepted by the payment backend.
type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// Currencies returns the accepted currencies in display order.
func Currencies() []Currency {
	return []Currency{CurrencyTRY, CurrencyUSD, CurrencyEUR, CurrencyGBP}
}

// Valid reports whether c is an accepted currency code.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyTRY, CurrencyUSD, CurrencyEUR, CurrencyGBP:
		return true
	}
	return false
}

// Provider identifies the gateway the backend routes a payment through.
type Provider string

const (
	ProviderCraftgate Provider = "CRAFTGATE"
	ProviderAkbank    Provider = "AKBANK"
)

// Providers returns the supported payment providers in display order.
func Providers() []Provider {
	return []Provider{ProviderCraftgate, ProviderAkbank}
}

// Valid reports whether p is a supported provider.
func (p Provider) Valid() bool {
	return p == ProviderCraftgate || p == ProviderAkbank
}

// Status is the lifecycle status of a payment, owned by the backend.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusSuccess    Status = "SUCCESS"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
)

// CardInfo carries the card fields for a single payment attempt. It lives in
// memory only for the duration of one form session and is never persisted
// on this side.
type CardInfo struct {
	CardHolderName string `json:"cardHolderName"`
	CardNumber     string `json:"cardNumber"`
	ExpireMonth    string `json:"expireMonth"`
	ExpireYear     string `json:"expireYear"`
	CVV            string `json:"cvv"`
}

// CreatePaymentRequest is the body of POST /api/v1/payments. It is built once
// per submit attempt; the conversation id doubles as the idempotency key.
type CreatePaymentRequest struct {
	ConversationID string          `json:"conversationId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       Currency        `json:"currency"`
	Provider       Provider        `json:"provider"`
	BuyerID        string          `json:"buyerId"`
	CardInfo       CardInfo        `json:"cardInfo"`
}

// PaymentResponse is the payment resource returned by the backend. The
// frontend only holds a transient copy for display.
type PaymentResponse struct {
	ID                string          `json:"id"`
	ConversationID    string          `json:"conversationId"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          Currency        `json:"currency"`
	Status            Status          `json:"status"`
	Provider          Provider        `json:"provider"`
	BuyerID           string          `json:"buyerId"`
	CreatedAt         time.Time       `json:"createdAt"`
	ExternalPaymentID string          `json:"externalPaymentId,omitempty"`
	ErrorMessage      string          `json:"errorMessage,omitempty"`
	ErrorCode         string          `json:"errorCode,omitempty"`
}

// ProblemDetail is the structured error envelope the backend returns on any
// non-2xx response.
type ProblemDetail struct {
	Type      string            `json:"type,omitempty"`
	Title     string            `json:"title"`
	Status    int               `json:"status"`
	Detail    string            `json:"detail"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
	ErrorCode string            `json:"errorCode,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// Message returns the human-readable text to surface for this problem,
// preferring the detail over the title.
func (p *ProblemDetail) Message() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}
