package main

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dumensel/payment-console/internal/config"
	"github.com/dumensel/payment-console/internal/domain/payment"
	"github.com/dumensel/payment-console/internal/form"
	"github.com/dumensel/payment-console/internal/view"
)

// applyDefaults pre-fills the controller from the configured order defaults.
func applyDefaults(ctrl *form.Controller, cfg *config.Config) {
	if cfg.Defaults.Amount != "" {
		if amount, err := decimal.NewFromString(cfg.Defaults.Amount); err == nil {
			ctrl.SetAmount(amount)
		}
	}
	if cfg.Defaults.Currency != "" {
		ctrl.SetCurrency(payment.Currency(cfg.Defaults.Currency))
	}
	if cfg.Defaults.Provider != "" {
		ctrl.SetProvider(payment.Provider(cfg.Defaults.Provider))
	}
	if cfg.Defaults.BuyerID != "" {
		ctrl.SetBuyerID(cfg.Defaults.BuyerID)
	}
}

func payCmd(v *viper.Viper) *cobra.Command {
	var (
		amount   string
		currency string
		provider string
		buyerID  string
		holder   string
		card     string
		expire   string
		cvv      string
	)

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Submit a single payment from flags, without the interactive form",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(v)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctrl := newController(cfg, log)

			if amount != "" {
				a, err := decimal.NewFromString(amount)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, err)
				}
				ctrl.SetAmount(a)
			}
			if currency != "" {
				ctrl.SetCurrency(payment.Currency(currency))
			}
			if provider != "" {
				ctrl.SetProvider(payment.Provider(provider))
			}
			if buyerID != "" {
				ctrl.SetBuyerID(buyerID)
			}
			ctrl.SetCardHolderName(holder)
			ctrl.CardNumber.Input(card)
			ctrl.ExpireDate.Input(expire)
			ctrl.CVV.Input(cvv)

			if err := ctrl.Submit(cmd.Context()); err != nil {
				if errors.Is(err, form.ErrValidationFailed) {
					for _, fe := range ctrl.FieldErrors() {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", fe.Field, fe.Message)
					}
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), view.Render(ctrl.Result()))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Payment amount, e.g. 100 or 49.90")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency code (TRY, USD, EUR, GBP)")
	cmd.Flags().StringVar(&provider, "provider", "", "Payment provider (CRAFTGATE, AKBANK)")
	cmd.Flags().StringVar(&buyerID, "buyer", "", "Buyer identifier")
	cmd.Flags().StringVar(&holder, "holder", "", "Card holder name")
	cmd.Flags().StringVar(&card, "card", "", "Card number, spaces allowed")
	cmd.Flags().StringVar(&expire, "expire", "", "Expire date as MM/YY")
	cmd.Flags().StringVar(&cvv, "cvv", "", "Card verification value")
	cmd.MarkFlagRequired("holder")
	cmd.MarkFlagRequired("card")
	cmd.MarkFlagRequired("expire")
	cmd.MarkFlagRequired("cvv")

	return cmd
}
