package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/openshift/launchkit/pkg/config"
	"github.com/openshift/launchkit/pkg/providers"
	"github.com/openshift/launchkit/pkg/server"
)

func main() {
	var configPath, port, logLevel string

	rootCmd := &cobra.Command{
		Use:   "launchkit-api",
		Short: "Launch cloud instances through a uniform HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the YAML or JSON configuration file")
	rootCmd.Flags().StringVar(&port, "port", config.DefaultPort, "server port")
	rootCmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "one of error, info, debug, trace")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logr.Logger) error {
	provider, err := providers.NewProvider(ctx, cfg.Provider, cfg.ProviderConfig, logger)
	if err != nil {
		return fmt.Errorf("failed creating provider %s: %w", cfg.Provider, err)
	}

	srv := server.NewLaunchkitAPI(cfg.Port, cfg.Provider, provider, cfg.Tokens, logger)
	if err := srv.Init(); err != nil {
		return err
	}
	return srv.Run(ctx)
}

// newLogger maps debug and trace to the logr V(1) and V(2) levels.
func newLogger(level string) (logr.Logger, error) {
	var zapLevel zapcore.Level
	zapConfig := zap.NewProductionConfig()

	switch level {
	case "error":
		zapLevel = zapcore.ErrorLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "debug":
		zapConfig = zap.NewDevelopmentConfig()
		zapLevel = zapcore.Level(-1)
	case "trace":
		zapConfig = zap.NewDevelopmentConfig()
		zapLevel = zapcore.Level(-2)
	default:
		return logr.Discard(), fmt.Errorf("unknown log level %q", level)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	zapLog, err := zapConfig.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zapLog).WithName("launchkit"), nil
}
