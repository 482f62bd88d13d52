package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tierboard",
		Short: "Ranking board server with catalog-driven item sets",
		Long: `Tierboard serves a ranking board populated from a catalog of image
packages. Each package's images and tags expand into selectable item
sets, and every bulk board mutation carries a one-shot undo.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newItemSetsCmd())
	cmd.AddCommand(newValidateCmd())

	return cmd
}
