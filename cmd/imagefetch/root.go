package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/shpitdev/imagefetch/internal/config"
	"github.com/shpitdev/imagefetch/internal/logging"
	"github.com/shpitdev/imagefetch/internal/version"
)

// commandContext resolves configuration once per invocation.
type commandContext struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, &usageError{err: err}
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Logging.Format = c.logFormat
	}
	c.cfg = &cfg
	return cfg, nil
}

func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, &usageError{err: err}
	}
	c.logger = logger
	return logger, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "imagefetch",
		Short:         "Download dataset images and publish their raw URLs",
		Version:       version.Current,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", "", "Configuration file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "", "Log level: debug, info, warn, error (env: IMAGEFETCH_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&ctx.logFormat, "log-format", "", "Log format: console or json (env: IMAGEFETCH_LOG_FORMAT)")

	rootCmd.AddCommand(newDownloadCommand(ctx))
	rootCmd.AddCommand(newURLsCommand(ctx))
	return rootCmd
}

func secondsOf(d time.Duration) int {
	return int(d / time.Second)
}
