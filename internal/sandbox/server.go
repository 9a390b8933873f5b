// Package sandbox is a local stand-in for the payment backend. It implements
// the same HTTP surface with an in-memory store and fixed test-card
// semantics, so the console and the end-to-end tests can run without an
// external service. It does not process real payments.
package sandbox

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/dumensel/payment-console/internal/domain/payment"
	"github.com/dumensel/payment-console/internal/validate"
)

// Sandbox test cards. Both pass the Luhn check; the decline card fails at
// the simulated gateway, not at validation.
const (
	TestCardSuccess = "5400010000000004"
	TestCardDecline = "5400010000000012"
)

type Server struct {
	addr   string
	echo   *echo.Echo
	store  *Store
	schema *validate.Schema
	logger *zap.Logger
}

func NewServer(addr string, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	s := &Server{
		addr:   addr,
		echo:   e,
		store:  NewStore(),
		schema: validate.NewSchema(nil),
		logger: logger,
	}

	e.GET("/health", s.handleHealth)
	e.POST("/api/v1/payments", s.handleCreatePayment)
	e.GET("/api/v1/payments/:id", s.handleGetPayment)
	e.GET("/api/v1/payments/by-conversation/:conversationId", s.handleGetPaymentByConversation)

	return s
}

func (s *Server) Start() error {
	s.logger.Info("Starting sandbox backend", zap.String("address", s.addr))
	return s.echo.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routes for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "payment-sandbox",
	})
}

func (s *Server) handleCreatePayment(c echo.Context) error {
	var req payment.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return s.problem(c, http.StatusBadRequest, "Invalid Request", "Request body could not be parsed", "", nil)
	}

	if c.Request().Header.Get("Idempotency-Key") == "" {
		s.logger.Warn("Payment request without Idempotency-Key",
			zap.String("conversation_id", req.ConversationID))
	}

	// idempotent replay: same conversation id returns the original outcome
	if existing, ok := s.store.GetByConversationID(req.ConversationID); ok {
		s.logger.Info("Replaying payment for known conversation id",
			zap.String("conversation_id", req.ConversationID),
			zap.String("payment_id", existing.ID))
		return c.JSON(http.StatusOK, existing)
	}

	if errs := s.schema.Validate(validate.Form{
		Amount:         req.Amount,
		Currency:       string(req.Currency),
		Provider:       string(req.Provider),
		BuyerID:        req.BuyerID,
		CardHolderName: req.CardInfo.CardHolderName,
		CardNumber:     req.CardInfo.CardNumber,
		ExpireMonth:    req.CardInfo.ExpireMonth,
		ExpireYear:     req.CardInfo.ExpireYear,
		CVV:            req.CardInfo.CVV,
	}); errs != nil {
		fields := make(map[string]string, len(errs))
		for _, fe := range errs {
			fields[fe.Field] = fe.Message
		}
		return s.problem(c, http.StatusBadRequest, "Validation Error",
			"Validation failed for one or more fields", "", fields)
	}

	s.logger.Info("Creating sandbox payment",
		zap.String("conversation_id", req.ConversationID),
		zap.String("buyer_id", req.BuyerID))

	resp := s.process(&req)
	s.store.Save(resp)

	return c.JSON(http.StatusCreated, resp)
}

// process applies the fixed sandbox gateway behavior to an accepted request.
func (s *Server) process(req *payment.CreatePaymentRequest) *payment.PaymentResponse {
	resp := &payment.PaymentResponse{
		ID:             "pmt-" + uuid.NewString(),
		ConversationID: req.ConversationID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Provider:       req.Provider,
		BuyerID:        req.BuyerID,
		CreatedAt:      time.Now().UTC(),
	}

	if req.CardInfo.CardNumber == TestCardDecline {
		resp.Status = payment.StatusFailed
		resp.ErrorCode = "INSUFFICIENT_FUNDS"
		resp.ErrorMessage = "Insufficient funds"
		return resp
	}

	resp.Status = payment.StatusSuccess
	resp.ExternalPaymentID = "pay_" + uuid.NewString()
	return resp
}

func (s *Server) handleGetPayment(c echo.Context) error {
	id := c.Param("id")
	p, ok := s.store.GetByID(id)
	if !ok {
		return s.problem(c, http.StatusNotFound, "Payment Not Found",
			"Payment not found: "+id, "", nil)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleGetPaymentByConversation(c echo.Context) error {
	conversationID := c.Param("conversationId")
	p, ok := s.store.GetByConversationID(conversationID)
	if !ok {
		return s.problem(c, http.StatusNotFound, "Payment Not Found",
			"Payment not found for conversation: "+conversationID, "", nil)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) problem(c echo.Context, status int, title, detail, errorCode string, fields map[string]string) error {
	now := time.Now().UTC()
	return c.JSON(status, payment.ProblemDetail{
		Title:     title,
		Status:    status,
		Detail:    detail,
		Timestamp: &now,
		ErrorCode: errorCode,
		Errors:    fields,
	})
}
