// Package console drives the interactive payment entry session on a
// terminal: it prompts for the form fields, echoes the masked display
// values, submits through the form controller and renders the result.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dumensel/payment-console/internal/domain/payment"
	"github.com/dumensel/payment-console/internal/form"
	"github.com/dumensel/payment-console/internal/format"
	"github.com/dumensel/payment-console/internal/view"
)

type Session struct {
	scanner *bufio.Scanner
	out     io.Writer
	ctrl    *form.Controller
	logger  *zap.Logger
}

func NewSession(in io.Reader, out io.Writer, ctrl *form.Controller, logger *zap.Logger) *Session {
	return &Session{
		scanner: bufio.NewScanner(in),
		out:     out,
		ctrl:    ctrl,
		logger:  logger,
	}
}

// Run loops payment sessions until the user declines another payment or the
// input ends.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Payment Console")
	fmt.Fprintf(s.out, "Test cards: success %s, decline %s\n",
		format.FormatCardNumber("5400010000000004"),
		format.FormatCardNumber("5400010000000012"))

	for {
		if !s.collect() {
			return nil
		}

		err := s.ctrl.Submit(ctx)
		if errors.Is(err, form.ErrValidationFailed) {
			fmt.Fprintln(s.out, "\nPlease fix the following fields:")
			for _, fe := range s.ctrl.FieldErrors() {
				fmt.Fprintf(s.out, "  ✗ %s: %s\n", fe.Field, fe.Message)
			}
			fmt.Fprintln(s.out)
			continue
		}
		if err != nil {
			fmt.Fprintf(s.out, "\n✗ %s\n", s.ctrl.SubmitError())
			if !s.confirm("Try again? [y/N] ") {
				return nil
			}
			continue
		}

		fmt.Fprintln(s.out)
		fmt.Fprint(s.out, view.Render(s.ctrl.Result()))

		if !s.confirm("Make another payment? [y/N] ") {
			return nil
		}
		s.ctrl.Reset()
		fmt.Fprintln(s.out)
	}
}

// collect prompts for every form field. It reports false when the input
// ends.
func (s *Session) collect() bool {
	line, ok := s.prompt(fmt.Sprintf("Amount [%s]", s.ctrl.Amount().StringFixed(2)))
	if !ok {
		return false
	}
	if line != "" {
		if amount, err := decimal.NewFromString(line); err == nil {
			s.ctrl.SetAmount(amount)
		} else {
			fmt.Fprintln(s.out, "  (not a number, keeping previous amount)")
		}
	}

	line, ok = s.prompt(fmt.Sprintf("Currency (TRY/USD/EUR/GBP) [%s]", s.ctrl.Currency()))
	if !ok {
		return false
	}
	if line != "" {
		s.ctrl.SetCurrency(payment.Currency(strings.ToUpper(line)))
	}

	line, ok = s.prompt(fmt.Sprintf("Provider (CRAFTGATE/AKBANK) [%s]", s.ctrl.Provider()))
	if !ok {
		return false
	}
	if line != "" {
		s.ctrl.SetProvider(payment.Provider(strings.ToUpper(line)))
	}

	line, ok = s.prompt(fmt.Sprintf("Buyer ID [%s]", s.ctrl.BuyerID()))
	if !ok {
		return false
	}
	if line != "" {
		s.ctrl.SetBuyerID(line)
	}

	line, ok = s.prompt("Card holder name")
	if !ok {
		return false
	}
	if line != "" {
		s.ctrl.SetCardHolderName(line)
	}

	line, ok = s.prompt("Card number")
	if !ok {
		return false
	}
	s.ctrl.CardNumber.Input(line)
	fmt.Fprintf(s.out, "  %s\n", s.ctrl.CardNumber.Display())

	line, ok = s.prompt("Expire date (MM/YY)")
	if !ok {
		return false
	}
	s.ctrl.ExpireDate.Input(line)
	fmt.Fprintf(s.out, "  %s\n", s.ctrl.ExpireDate.Display())

	line, ok = s.prompt("CVV")
	if !ok {
		return false
	}
	s.ctrl.CVV.Input(line)

	return true
}

func (s *Session) prompt(label string) (string, bool) {
	fmt.Fprintf(s.out, "%s: ", label)
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

func (s *Session) confirm(question string) bool {
	fmt.Fprint(s.out, question)
	if !s.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(s.scanner.Text()))
	return answer == "y" || answer == "yes"
}
