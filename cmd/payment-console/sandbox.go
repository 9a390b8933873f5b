package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dumensel/payment-console/internal/sandbox"
)

func sandboxCmd(v *viper.Viper) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run the in-memory sandbox payment backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(v)
			if err != nil {
				return err
			}
			defer log.Sync()

			if addr == "" {
				addr = cfg.Sandbox.Addr
			}

			srv := sandbox.NewServer(addr, log)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigChan:
			}

			log.Info("Shutting down sandbox server...")
			if err := srv.Shutdown(context.Background()); err != nil {
				log.Error("Failed to shutdown sandbox server", zap.Error(err))
				return err
			}
			log.Info("Sandbox server shut down successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, e.g. :8980")

	return cmd
}
