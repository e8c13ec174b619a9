package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/webindex/webindex/internal/crawler"
	"github.com/webindex/webindex/internal/logging"
)

// newCrawlCmd creates and configures the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url ...]",
		Short: "Crawls and indexes pages from the configured seed URLs",
		Long: `Runs a depth-bounded crawl. Seed URLs come from the configuration file
unless given as arguments. Pages already present in the index are skipped;
per-page fetch and parse failures are logged and skipped; the crawl only
aborts on a store failure.`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCommand,
	}
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if len(args) > 0 {
		v.Set("crawler.seed_urls", args)
	}
	cfg, err := crawler.LoadConfig(v)
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}

	store, _, err := openStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("open index store: %w", err)
	}
	defer store.Close()

	fetcher, err := crawler.NewCollyFetcher(cfg, logging.L)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	engine := crawler.NewEngine(cfg, fetcher, store, logging.L)
	if err := engine.Crawl(cmd.Context(), cfg.Seeds); err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}

	logging.L.Info("Crawl command finished.", zap.Int("seeds", len(cfg.Seeds)))
	return nil
}
