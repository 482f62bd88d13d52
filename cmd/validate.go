package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tierlab/tierboard/internal/catalog"
)

func newValidateCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report configuration issues in a catalog file",
		Long: `Loads a catalog file and reports configuration-quality issues:
undefined tag references, missing labels, duplicate filenames, and
tags no image carries.

The server tolerates all of these at runtime with deterministic
fallbacks; validate exists to surface them before they reach users.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}

			findings := cat.Lint()
			if len(findings) == 0 {
				fmt.Printf("%s: no issues found (%d packages)\n", catalogPath, len(cat.Packages))
				return nil
			}

			for _, f := range findings {
				fmt.Println(f)
			}
			return fmt.Errorf("%d issue(s) found in %s", len(findings), catalogPath)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to the catalog file (required)")

	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}
