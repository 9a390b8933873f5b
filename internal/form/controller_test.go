package form

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dumensel/payment-console/internal/domain/payment"
)

func frozenNow() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

// MockSubmitter is a mock implementation of Submitter
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) CreatePayment(ctx context.Context, req *payment.CreatePaymentRequest) (*payment.PaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentResponse), args.Error(1)
}

func fillValidForm(c *Controller) {
	c.SetAmount(decimal.NewFromInt(100))
	c.SetCurrency(payment.CurrencyTRY)
	c.SetProvider(payment.ProviderCraftgate)
	c.SetBuyerID("buyer-demo-123")
	c.SetCardHolderName("John Doe")
	c.CardNumber.Input("5400 0100 0000 0004")
	c.ExpireDate.Input("12/29")
	c.CVV.Input("123")
}

func TestSubmitValidationFailureNeverTouchesNetwork(t *testing.T) {
	client := new(MockSubmitter)
	c := NewController(client, zap.NewNop(), WithClock(frozenNow))

	fillValidForm(c)
	c.CardNumber.Input("5400010000000005") // altered check digit

	err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrValidationFailed)

	assert.Equal(t, PhaseEditing, c.Phase())
	assert.Equal(t, "Invalid card number (failed Luhn check)", c.FieldErrors().Get("cardNumber"))
	client.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestSubmitBuildsRequestFromValidatedForm(t *testing.T) {
	client := new(MockSubmitter)
	var got *payment.CreatePaymentRequest
	client.On("CreatePayment", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			got = args.Get(1).(*payment.CreatePaymentRequest)
		}).
		Return(&payment.PaymentResponse{
			ID:     "pmt-1",
			Status: payment.StatusSuccess,
			Amount: decimal.NewFromInt(100),
		}, nil)

	c := NewController(client, zap.NewNop(), WithClock(frozenNow))
	fillValidForm(c)

	require.NoError(t, c.Submit(context.Background()))
	require.NotNil(t, got)

	assert.Regexp(t, regexp.MustCompile(`^ORDER-\d+-[0-9a-z]{7}$`), got.ConversationID)
	assert.Equal(t, "JOHN DOE", got.CardInfo.CardHolderName, "holder name is upper-cased")
	assert.Equal(t, "5400010000000004", got.CardInfo.CardNumber)
	assert.Equal(t, "12", got.CardInfo.ExpireMonth)
	assert.Equal(t, "2029", got.CardInfo.ExpireYear)
	assert.Equal(t, "123", got.CardInfo.CVV)
	assert.Equal(t, "buyer-demo-123", got.BuyerID)

	assert.Equal(t, PhaseResult, c.Phase())
	assert.Equal(t, "pmt-1", c.Result().ID)
}

func TestSubmitGeneratesFreshConversationIDPerAttempt(t *testing.T) {
	client := new(MockSubmitter)
	var ids []string
	client.On("CreatePayment", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ids = append(ids, args.Get(1).(*payment.CreatePaymentRequest).ConversationID)
		}).
		Return(&payment.PaymentResponse{ID: "pmt-1", Status: payment.StatusFailed}, nil)

	c := NewController(client, zap.NewNop(), WithClock(frozenNow))

	fillValidForm(c)
	require.NoError(t, c.Submit(context.Background()))

	c.Reset()
	fillValidForm(c)
	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestSubmitErrorReturnsToEditing(t *testing.T) {
	client := new(MockSubmitter)
	client.On("CreatePayment", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	c := NewController(client, zap.NewNop(), WithClock(frozenNow))
	fillValidForm(c)

	err := c.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, PhaseEditing, c.Phase())
	assert.Equal(t, assert.AnError.Error(), c.SubmitError())
	assert.Nil(t, c.Result())

	// the user may simply retry
	client.AssertNumberOfCalls(t, "CreatePayment", 1)
	require.Error(t, c.Submit(context.Background()))
	client.AssertNumberOfCalls(t, "CreatePayment", 2)
}

func TestDuplicateSubmitGuard(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	client := new(MockSubmitter)
	client.On("CreatePayment", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&payment.PaymentResponse{ID: "pmt-1", Status: payment.StatusSuccess}, nil)

	c := NewController(client, zap.NewNop(), WithClock(frozenNow))
	fillValidForm(c)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.Submit(context.Background()))
	}()

	<-entered
	assert.Equal(t, PhaseSubmitting, c.Phase())
	assert.ErrorIs(t, c.Submit(context.Background()), ErrSubmitInFlight)

	close(release)
	wg.Wait()

	client.AssertNumberOfCalls(t, "CreatePayment", 1)
	assert.Equal(t, PhaseResult, c.Phase())
}

func TestSuccessfulSubmitDiscardsCardData(t *testing.T) {
	client := new(MockSubmitter)
	client.On("CreatePayment", mock.Anything, mock.Anything).
		Return(&payment.PaymentResponse{ID: "pmt-1", Status: payment.StatusSuccess}, nil)

	c := NewController(client, zap.NewNop(), WithClock(frozenNow))
	fillValidForm(c)

	require.NoError(t, c.Submit(context.Background()))

	assert.Empty(t, c.CardNumber.Raw())
	assert.Empty(t, c.ExpireDate.Raw())
	assert.Empty(t, c.CVV.Raw())
	assert.Empty(t, c.CardHolderName())
}

func TestFailedResultKeepsResultPhase(t *testing.T) {
	client := new(MockSubmitter)
	client.On("CreatePayment", mock.Anything, mock.Anything).
		Return(&payment.PaymentResponse{
			ID:           "pmt-2",
			Status:       payment.StatusFailed,
			ErrorMessage: "Insufficient funds",
			ErrorCode:    "INSUFFICIENT_FUNDS",
		}, nil)

	c := NewController(client, zap.NewNop(), WithClock(frozenNow))
	fillValidForm(c)

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, PhaseResult, c.Phase())
	assert.Equal(t, "INSUFFICIENT_FUNDS", c.Result().ErrorCode)
}

func TestReset(t *testing.T) {
	client := new(MockSubmitter)
	client.On("CreatePayment", mock.Anything, mock.Anything).
		Return(&payment.PaymentResponse{ID: "pmt-1", Status: payment.StatusFailed}, nil)

	c := NewController(client, zap.NewNop(), WithClock(frozenNow))
	fillValidForm(c)
	require.NoError(t, c.Submit(context.Background()))
	require.Equal(t, PhaseResult, c.Phase())

	c.Reset()

	assert.Equal(t, PhaseEditing, c.Phase())
	assert.Nil(t, c.Result())
	assert.Empty(t, c.SubmitError())
	assert.Nil(t, c.FieldErrors())
	assert.Empty(t, c.CardNumber.Raw())
	assert.Empty(t, c.CVV.Raw())
}
