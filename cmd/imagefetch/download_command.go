package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/shpitdev/imagefetch/internal/app"
	"github.com/shpitdev/imagefetch/internal/config"
)

type downloadFlags struct {
	input           string
	outputDir       string
	timeout         time.Duration
	userAgent       string
	idColumn        string
	primaryColumn   string
	secondaryColumn string
	primarySuffix   string
	secondarySuffix string
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the images referenced by each row of the input CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyDownloadFlags(cmd, &cfg, flags)
			if err := cfg.Validate(); err != nil {
				return &usageError{err: err}
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			_, err = app.RunDownload(cmd.Context(), cfg, app.Env{
				Stdout: cmd.OutOrStdout(),
				Logger: logger,
			})
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.input, "input", "i", "", "Input CSV file (env: IMAGEFETCH_INPUT)")
	f.StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for downloaded images (env: IMAGEFETCH_OUTPUT_DIR)")
	f.DurationVar(&flags.timeout, "timeout", 0, "Per-request timeout (env: IMAGEFETCH_TIMEOUT)")
	f.StringVar(&flags.userAgent, "user-agent", "", "User-Agent header sent with each request (env: IMAGEFETCH_USER_AGENT)")
	f.StringVar(&flags.idColumn, "id-column", "", "Identifier column name")
	f.StringVar(&flags.primaryColumn, "primary-column", "", "Primary image URL column name")
	f.StringVar(&flags.secondaryColumn, "secondary-column", "", "Secondary image URL column name")
	f.StringVar(&flags.primarySuffix, "primary-suffix", "", "File name suffix for primary images")
	f.StringVar(&flags.secondarySuffix, "secondary-suffix", "", "File name suffix for secondary images")
	return cmd
}

func applyDownloadFlags(cmd *cobra.Command, cfg *config.Config, flags downloadFlags) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("input", &cfg.Input.Path, flags.input)
	set("output-dir", &cfg.Output.Dir, flags.outputDir)
	set("user-agent", &cfg.HTTP.UserAgent, flags.userAgent)
	set("id-column", &cfg.Input.IDColumn, flags.idColumn)
	set("primary-column", &cfg.Input.PrimaryColumn, flags.primaryColumn)
	set("secondary-column", &cfg.Input.SecondaryColumn, flags.secondaryColumn)
	set("primary-suffix", &cfg.Output.PrimarySuffix, flags.primarySuffix)
	set("secondary-suffix", &cfg.Output.SecondarySuffix, flags.secondarySuffix)
	if cmd.Flags().Changed("timeout") {
		cfg.HTTP.TimeoutSeconds = secondsOf(flags.timeout)
	}
}
