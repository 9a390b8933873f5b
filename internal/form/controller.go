// Package form binds the validation schema to the payment entry form state
// and drives the editing / submitting / result lifecycle.
package form

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dumensel/payment-console/internal/domain/payment"
	"github.com/dumensel/payment-console/internal/format"
	"github.com/dumensel/payment-console/internal/validate"
)

// Phase is the form lifecycle phase. The associated data lives next to it in
// the controller: field errors only exist while editing, a result only while
// in the result phase.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResult:
		return "result"
	}
	return "unknown"
}

var (
	// ErrSubmitInFlight rejects a submit attempted while another one is
	// outstanding.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrValidationFailed is returned when the schema rejects the form; the
	// field errors are on the controller.
	ErrValidationFailed = errors.New("form validation failed")
)

// Submitter is the slice of the backend client the form needs.
type Submitter interface {
	CreatePayment(ctx context.Context, req *payment.CreatePaymentRequest) (*payment.PaymentResponse, error)
}

// Controller owns all form field values. Widgets and views read them; only
// the controller (through the field types it exposes) writes them.
type Controller struct {
	CardNumber CardNumberField
	ExpireDate ExpireDateField
	CVV        CVVField

	mu             sync.Mutex
	phase          Phase
	amount         decimal.Decimal
	currency       payment.Currency
	provider       payment.Provider
	buyerID        string
	cardHolderName string

	fieldErrors validate.Errors
	submitError string
	result      *payment.PaymentResponse

	schema            *validate.Schema
	client            Submitter
	logger            *zap.Logger
	newConversationID func() string
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithClock injects the clock used for expiry validation.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.schema = validate.NewSchema(now)
	}
}

// WithConversationIDFunc injects the idempotency token generator.
func WithConversationIDFunc(fn func() string) ControllerOption {
	return func(c *Controller) {
		c.newConversationID = fn
	}
}

// NewController builds a form controller in the editing phase with sensible
// demo defaults for the order fields.
func NewController(client Submitter, logger *zap.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		phase:             PhaseEditing,
		amount:            decimal.NewFromInt(100),
		currency:          payment.CurrencyTRY,
		provider:          payment.ProviderCraftgate,
		buyerID:           "buyer-123",
		schema:            validate.NewSchema(nil),
		client:            client,
		logger:            logger,
		newConversationID: format.GenerateConversationID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// FieldErrors returns the field errors from the last failed validation.
func (c *Controller) FieldErrors() validate.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrors
}

// SubmitError returns the top-level message from the last failed submission.
func (c *Controller) SubmitError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitError
}

// Result returns the backend response while in the result phase, else nil.
func (c *Controller) Result() *payment.PaymentResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller) SetAmount(a decimal.Decimal)      { c.mu.Lock(); c.amount = a; c.mu.Unlock() }
func (c *Controller) SetCurrency(cur payment.Currency) { c.mu.Lock(); c.currency = cur; c.mu.Unlock() }
func (c *Controller) SetProvider(p payment.Provider)   { c.mu.Lock(); c.provider = p; c.mu.Unlock() }
func (c *Controller) SetBuyerID(id string)             { c.mu.Lock(); c.buyerID = id; c.mu.Unlock() }
func (c *Controller) SetCardHolderName(name string)    { c.mu.Lock(); c.cardHolderName = name; c.mu.Unlock() }

func (c *Controller) Amount() decimal.Decimal    { c.mu.Lock(); defer c.mu.Unlock(); return c.amount }
func (c *Controller) Currency() payment.Currency { c.mu.Lock(); defer c.mu.Unlock(); return c.currency }
func (c *Controller) Provider() payment.Provider { c.mu.Lock(); defer c.mu.Unlock(); return c.provider }
func (c *Controller) BuyerID() string            { c.mu.Lock(); defer c.mu.Unlock(); return c.buyerID }
func (c *Controller) CardHolderName() string     { c.mu.Lock(); defer c.mu.Unlock(); return c.cardHolderName }

func (c *Controller) currentForm() validate.Form {
	return validate.Form{
		Amount:         c.amount,
		Currency:       string(c.currency),
		Provider:       string(c.provider),
		BuyerID:        c.buyerID,
		CardHolderName: c.cardHolderName,
		CardNumber:     c.CardNumber.Raw(),
		ExpireMonth:    c.ExpireDate.Month(),
		ExpireYear:     c.ExpireDate.Year(),
		CVV:            c.CVV.Raw(),
	}
}

// Submit runs one attempt: validation gates the data before anything touches
// the network; a validation failure keeps the form editable with field
// errors. A valid form moves to submitting, issues exactly one create call
// (further submits are rejected until it resolves), then lands either in
// the result phase or back in editing with a top-level error message.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}

	f := c.currentForm()
	if errs := c.schema.Validate(f); errs != nil {
		c.fieldErrors = errs
		c.phase = PhaseEditing
		c.mu.Unlock()
		return ErrValidationFailed
	}

	c.fieldErrors = nil
	c.submitError = ""
	c.phase = PhaseSubmitting
	req := c.buildRequest(f)
	c.mu.Unlock()

	c.logger.Info("Payment form submitted",
		zap.String("conversation_id", req.ConversationID),
		zap.String("masked_card", format.MaskCardNumber(req.CardInfo.CardNumber)))

	resp, err := c.client.CreatePayment(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = PhaseEditing
		c.submitError = err.Error()
		c.logger.Warn("Payment submission failed",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err))
		return err
	}

	c.phase = PhaseResult
	c.result = resp
	if resp.Status == payment.StatusSuccess {
		c.clearCardFields()
	}
	return nil
}

// buildRequest constructs the immutable request for one attempt: a fresh
// conversation id every time, the holder name upper-cased, and month/year
// rebuilt from the validated expiry input.
func (c *Controller) buildRequest(f validate.Form) *payment.CreatePaymentRequest {
	expiry := f.ExpireMonth
	if len(f.ExpireYear) >= 2 {
		expiry += f.ExpireYear[len(f.ExpireYear)-2:]
	}
	month, _ := format.ParseExpireDate(expiry)

	return &payment.CreatePaymentRequest{
		ConversationID: c.newConversationID(),
		Amount:         f.Amount,
		Currency:       payment.Currency(f.Currency),
		Provider:       payment.Provider(f.Provider),
		BuyerID:        f.BuyerID,
		CardInfo: payment.CardInfo{
			CardHolderName: strings.ToUpper(f.CardHolderName),
			CardNumber:     f.CardNumber,
			ExpireMonth:    month,
			ExpireYear:     f.ExpireYear,
			CVV:            f.CVV,
		},
	}
}

// Reset returns the form to the editing phase with a blank slate. Card data
// is discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.phase = PhaseEditing
	c.amount = decimal.NewFromInt(100)
	c.currency = payment.CurrencyTRY
	c.provider = payment.ProviderCraftgate
	c.buyerID = "buyer-123"
	c.cardHolderName = ""
	c.fieldErrors = nil
	c.submitError = ""
	c.result = nil
	c.clearCardFields()
}

func (c *Controller) clearCardFields() {
	c.CardNumber.Clear()
	c.ExpireDate.Clear()
	c.CVV.Clear()
	c.cardHolderName = ""
}
