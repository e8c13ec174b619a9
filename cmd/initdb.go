package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/webindex/webindex/internal/logging"
)

// newInitDBCmd creates the 'initdb' subcommand, which creates the five index
// tables and their lookup indexes. The DDL is idempotent, so running it
// against an existing database is safe.
func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Creates the index schema in the configured database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open index store: %w", err)
			}
			defer store.Close()

			if err := store.InitSchema(cmd.Context()); err != nil {
				return fmt.Errorf("init schema: %w", err)
			}
			logging.L.Info("Index schema created.")
			return nil
		},
	}
}
