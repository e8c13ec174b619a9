// Package cmd defines and implements the CLI commands for the webindex
// executable.
package cmd

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/webindex/webindex/internal/index"
	"github.com/webindex/webindex/internal/logging"
	"github.com/webindex/webindex/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webindex",
		Short: "A crawling full-text and link-graph indexer.",
		Long: `webindex crawls the web from a set of seed URLs, tokenizes the visible
text of each page, and persists word postings and link edges with their
anchor text into a relational index. Already-indexed pages are never
re-indexed, so repeated crawls are idempotent.`,

		// Build the logger after Viper has loaded configuration.
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.InitLogger(viper.GetBool("log.development"))
		},
	}

	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(
		newInitDBCmd(),
		newCrawlCmd(),
		newIndexedCmd(),
		newSearchCmd(),
		newServeCmd(),
	)

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}

// openStore connects the shared pool and wraps it in the index store. The
// pool is returned as well so read paths (search) can share it. Closing the
// store closes the pool.
func openStore(ctx context.Context) (*index.Store, *pgxpool.Pool, error) {
	pool, err := index.NewPool(ctx, index.PoolConfig{
		DSN:             viper.GetString("database.dsn"),
		MaxConns:        int32(viper.GetInt("database.max_conns")),
		MinConns:        int32(viper.GetInt("database.min_conns")),
		MaxConnLifetime: viper.GetDuration("database.max_conn_lifetime"),
	})
	if err != nil {
		return nil, nil, err
	}
	store, err := index.NewStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool, nil
}

// shutdownTimeout bounds graceful HTTP shutdown in the serve command.
const shutdownTimeout = 10 * time.Second
