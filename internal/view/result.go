// Package view renders a payment result for the terminal. Rendering is a
// pure function of the payment record.
package view

import (
	"fmt"
	"strings"

	"github.com/dumensel/payment-console/internal/domain/payment"
	"github.com/dumensel/payment-console/internal/format"
)

const (
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBold   = "\033[1m"
	ansiReset  = "\033[0m"
)

// Render returns the result screen for p. There are exactly three branches:
// success, failed, and everything else treated as in progress.
func Render(p *payment.PaymentResponse) string {
	switch p.Status {
	case payment.StatusSuccess:
		return renderSuccess(p)
	case payment.StatusFailed:
		return renderFailed(p)
	default:
		return renderInProgress(p)
	}
}

func renderSuccess(p *payment.PaymentResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s%sPayment Successful!%s\n", ansiBold, ansiGreen, ansiReset)
	b.WriteString("Your payment has been processed successfully.\n\n")

	fmt.Fprintf(&b, "  Amount:       %s\n", format.FormatCurrency(p.Amount, p.Currency))
	fmt.Fprintf(&b, "  Payment ID:   %s\n", p.ID)
	if p.ExternalPaymentID != "" {
		fmt.Fprintf(&b, "  Transaction:  %s\n", p.ExternalPaymentID)
	}
	fmt.Fprintf(&b, "  Provider:     %s\n", p.Provider)
	fmt.Fprintf(&b, "  Status:       %s✓ %s%s\n", ansiGreen, p.Status, ansiReset)

	b.WriteString("\n[Make Another Payment]\n")
	return b.String()
}

func renderFailed(p *payment.PaymentResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s%sPayment Failed%s\n", ansiBold, ansiRed, ansiReset)
	b.WriteString("Unfortunately, your payment could not be processed.\n\n")

	if p.ErrorMessage != "" {
		fmt.Fprintf(&b, "  %s%s%s\n", ansiRed, p.ErrorMessage, ansiReset)
	}
	if p.ErrorCode != "" {
		fmt.Fprintf(&b, "  Error Code:   %s\n", p.ErrorCode)
	}

	fmt.Fprintf(&b, "  Amount:       %s\n", format.FormatCurrency(p.Amount, p.Currency))
	fmt.Fprintf(&b, "  Payment ID:   %s\n", p.ID)
	fmt.Fprintf(&b, "  Status:       %s✗ %s%s\n", ansiRed, p.Status, ansiReset)

	b.WriteString("\n[Try Again]\n")
	return b.String()
}

func renderInProgress(p *payment.PaymentResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s%sPayment %s%s\n", ansiBold, ansiYellow, p.Status, ansiReset)
	b.WriteString("Please wait while we process your payment...\n\n")

	fmt.Fprintf(&b, "  Payment ID:   %s\n", p.ID)

	b.WriteString("\n[Go Back]\n")
	return b.String()
}
