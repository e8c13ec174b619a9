package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newIndexedCmd creates the 'indexed' subcommand, the coverage check for a
// single URL: a URL counts as indexed only when it has postings, not when it
// is merely known as a link target.
func newIndexedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexed <url>",
		Short: "Reports whether a URL has been crawled and indexed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open index store: %w", err)
			}
			defer store.Close()

			indexed, err := store.IsIndexed(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("check indexed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s indexed=%t\n", args[0], indexed)
			return nil
		},
	}
}
