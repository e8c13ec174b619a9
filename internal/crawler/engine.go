package crawler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/webindex/webindex/internal/index"
	"github.com/webindex/webindex/internal/tokenizer"
)

// Engine orchestrates fetch, parse, tokenize, index, and link extraction
// over successive frontier generations.
type Engine struct {
	cfg     Config
	fetcher Fetcher
	index   index.Index
	stop    map[string]struct{}
	logger  *zap.Logger
}

// NewEngine wires the crawl pipeline together.
func NewEngine(cfg Config, fetcher Fetcher, idx index.Index, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	stop := tokenizer.DefaultStopWords()
	if len(cfg.StopWords) > 0 {
		stop = make(map[string]struct{}, len(cfg.StopWords))
		for _, word := range cfg.StopWords {
			stop[word] = struct{}{}
		}
	}
	initMetrics()
	return &Engine{
		cfg:     cfg,
		fetcher: fetcher,
		index:   idx,
		stop:    stop,
		logger:  logger,
	}
}

// Crawl walks the link graph starting from seeds, indexing each page it can
// fetch and parse, down to the configured depth. The depth counter
// decrements once per full frontier pass: depth 1 indexes only the seeds.
//
// Fetch and parse failures skip the offending URL. Store failures abort the
// crawl, since they indicate a persistence-layer problem rather than a
// transient per-page one.
func (e *Engine) Crawl(ctx context.Context, seeds []string) error {
	logger := e.logger.With(zap.String("run_id", uuid.NewString()))
	frontier := dedupe(seeds)

	for depth := e.cfg.MaxDepth; depth > 0 && len(frontier) > 0; depth-- {
		logger.Info("processing frontier",
			zap.Int("depth", depth),
			zap.Int("urls", len(frontier)),
		)
		started := time.Now()
		next, err := e.crawlLevel(ctx, logger, frontier)
		observeLevelDuration(time.Since(started))
		if err != nil {
			return err
		}
		frontier = next
	}

	logger.Info("crawl finished")
	return nil
}

// crawlLevel processes one frontier generation with a bounded worker pool
// and returns the de-duplicated next frontier. The group wait is the
// barrier: the next generation is only computed after every URL of this one
// has finished.
func (e *Engine) crawlLevel(ctx context.Context, logger *zap.Logger, frontier []string) ([]string, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.cfg.Concurrency)

	var mu sync.Mutex
	nextSet := make(map[string]struct{})

	for _, pageURL := range frontier {
		pageURL := pageURL
		indexed, err := e.index.IsIndexed(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		if indexed {
			logger.Debug("already indexed", zap.String("url", pageURL))
			observePageSkipped("already_indexed")
			continue
		}

		group.Go(func() error {
			// A store failure elsewhere cancels the group; stop
			// issuing new fetches but let in-flight ones finish.
			if err := groupCtx.Err(); err != nil {
				return err
			}
			discovered, err := e.processURL(groupCtx, logger, pageURL)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, link := range discovered {
				nextSet[link] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	next := make([]string, 0, len(nextSet))
	for link := range nextSet {
		next = append(next, link)
	}
	sort.Strings(next)
	return next, nil
}

// processURL runs the per-URL pipeline and returns the link targets
// discovered on the page. Fetch and parse failures return (nil, nil) after
// logging: the URL is simply dropped from this pass.
func (e *Engine) processURL(ctx context.Context, logger *zap.Logger, pageURL string) ([]string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()

	body, err := e.fetcher.Fetch(fetchCtx, pageURL)
	if err != nil {
		logger.Warn("fetch failed, skipping url", zap.String("url", pageURL), zap.Error(err))
		observePageSkipped("fetch_error")
		return nil, nil
	}

	doc, err := Parse(body)
	if err != nil {
		logger.Warn("parse failed, skipping url", zap.String("url", pageURL), zap.Error(err))
		observePageSkipped("parse_error")
		return nil, nil
	}

	words := tokenizer.Tokenize(doc.Text(), e.stop)
	if err := e.index.AddIndex(ctx, pageURL, words); err != nil {
		return nil, err
	}
	observePageIndexed()
	logger.Info("indexed page", zap.String("url", pageURL), zap.Int("words", len(words)))

	links := ExtractLinks(pageURL, doc)
	next := make([]string, 0, len(links))
	for _, link := range links {
		anchorWords := tokenizer.Tokenize(link.AnchorText, e.stop)
		if err := e.index.AddLinkRef(ctx, pageURL, link.URL, anchorWords); err != nil {
			return nil, err
		}
		// Link targets join the next frontier unconditionally; the
		// indexed check at the next depth filters them again.
		next = append(next, link.URL)
	}
	observeLinksRecorded(len(links))
	return next, nil
}

// dedupe collapses duplicate URLs while keeping first-seen order.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
