package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/catalog-core/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "catalog",
		Short:   "Product catalog service",
		Long:    "Catalog: product types with JSON Schema attributes, slugged products and variant trees.",
		Version: build.String(),
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSlugCmd())
	rootCmd.AddCommand(newCheckSchemaCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
