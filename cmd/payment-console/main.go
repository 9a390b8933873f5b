package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dumensel/payment-console/internal/client"
	"github.com/dumensel/payment-console/internal/config"
	"github.com/dumensel/payment-console/internal/console"
	"github.com/dumensel/payment-console/internal/form"
	"github.com/dumensel/payment-console/internal/logger"
)

var Version = "dev"

func main() {
	v := viper.New()
	v.SetEnvPrefix("PAYCONSOLE")
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:     "payment-console",
		Short:   "Interactive card payment entry against the payment backend",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(v)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctrl := newController(cfg, log)
			session := console.NewSession(os.Stdin, os.Stdout, ctrl, log)
			return session.Run(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().String("backend", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (json, console)")
	v.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
	v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(payCmd(v))
	rootCmd.AddCommand(getCmd(v))
	rootCmd.AddCommand(lookupCmd(v))
	rootCmd.AddCommand(sandboxCmd(v))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config file and applies flag/env overrides, then builds
// the logger.
func setup(v *viper.Viper) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if s := v.GetString("backend"); s != "" {
		cfg.Backend.BaseURL = s
	}
	if s := v.GetString("log_level"); s != "" {
		cfg.Log.Level = s
	}
	if s := v.GetString("log_format"); s != "" {
		cfg.Log.Format = s
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, log, nil
}

func newClient(cfg *config.Config, log *zap.Logger) *client.Client {
	var opts []client.Option
	if cfg.Backend.TimeoutSeconds > 0 {
		opts = append(opts, client.WithTimeout(time.Duration(cfg.Backend.TimeoutSeconds)*time.Second))
	}
	return client.New(cfg.Backend.BaseURL, log, opts...)
}

func newController(cfg *config.Config, log *zap.Logger) *form.Controller {
	ctrl := form.NewController(newClient(cfg, log), log)
	applyDefaults(ctrl, cfg)
	return ctrl
}
