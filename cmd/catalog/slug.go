package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joestump/catalog-core/internal/config"
	"github.com/joestump/catalog-core/internal/slug"
)

func newSlugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slug <name>...",
		Short: "Print the base slug a product name would get",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read()
			if err != nil {
				return err
			}
			svc, err := slug.NewService(cfg.Slug)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), svc.Base(strings.Join(args, " ")))
			return err
		},
	}
}
