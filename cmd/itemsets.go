package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tierlab/tierboard/internal/catalog"
	"github.com/tierlab/tierboard/internal/itemset"
	"gopkg.in/yaml.v3"
)

func newItemSetsCmd() *cobra.Command {
	var catalogPath string
	var format string

	cmd := &cobra.Command{
		Use:   "itemsets",
		Short: "Derive and print the item set catalog",
		Long: `Loads a catalog file, runs derivation, and prints every selectable
item set in order: each package's "all" set followed by its non-empty
tag sets.`,
		Example: `  # Print item sets as YAML
  tierboard itemsets --catalog catalog.yaml

  # Print item sets as JSON
  tierboard itemsets --catalog catalog.yaml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}

			sets := itemset.Derive(cat)

			switch format {
			case "yaml":
				out, err := yaml.Marshal(sets)
				if err != nil {
					return fmt.Errorf("failed to marshal item sets: %w", err)
				}
				fmt.Print(string(out))
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(sets); err != nil {
					return fmt.Errorf("failed to encode item sets: %w", err)
				}
			default:
				return fmt.Errorf("unsupported format %q (supported: yaml, json)", format)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to the catalog file (required)")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")

	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}
