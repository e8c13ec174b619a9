package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webindex/webindex/internal/logging"
	"github.com/webindex/webindex/internal/search"
)

// newSearchCmd creates the 'search' subcommand: the companion read path
// returning every indexed URL containing all of the query words.
func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <word> [word ...]",
		Short: "Finds indexed URLs containing every query word",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, pool, err := openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open index store: %w", err)
			}
			defer store.Close()

			searcher := search.NewSearcher(pool, logging.L)
			matches, err := searcher.MatchRows(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("run search: %w", err)
			}

			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			for _, match := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", match.URL, match.Locations)
			}
			return nil
		},
	}
}
