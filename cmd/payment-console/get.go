package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dumensel/payment-console/internal/view"
)

func getCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <payment-id>",
		Short: "Fetch a payment by its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(v)
			if err != nil {
				return err
			}
			defer log.Sync()

			p, err := newClient(cfg, log).GetPayment(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), view.Render(p))
			return nil
		},
	}
}

func lookupCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <conversation-id>",
		Short: "Fetch a payment by its conversation id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(v)
			if err != nil {
				return err
			}
			defer log.Sync()

			p, err := newClient(cfg, log).GetPaymentByConversationID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no payment found for conversation id %s\n", args[0])
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), view.Render(p))
			return nil
		},
	}
}
