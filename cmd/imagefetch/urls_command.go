package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shpitdev/imagefetch/internal/app"
)

func newURLsCommand(ctx *commandContext) *cobra.Command {
	var root string
	var baseURL string

	cmd := &cobra.Command{
		Use:   "urls <folder>",
		Short: "Print raw-content URLs for the images in a folder of the published repository",
		Example: "  imagefetch urls alt-text-data\n" +
			"  imagefetch urls ally_high_latency_debug_req_1 --root ~/src/public",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				root = wd
			}
			if baseURL == "" {
				baseURL = cfg.RawBaseURL()
			}
			_, err = app.RunURLs(cmd.OutOrStdout(), app.URLOptions{
				Root:    root,
				Folder:  args[0],
				BaseURL: baseURL,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Repository checkout containing the folder (default: working directory)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Raw-content base URL (default: built from the publish config)")
	return cmd
}
