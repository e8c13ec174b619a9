// Package index implements the persistent full-text and link-graph store.
//
// The store keeps a normalized relational shape: URLs and words map to
// stable integer ids, word occurrences are recorded as (url, word, position)
// postings, and hyperlinks are recorded as edges annotated with their
// tokenized anchor words.
package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals that a required identifier does not exist and its
// creation was disallowed.
var ErrNotFound = errors.New("index: record not found")

// Index is the persistence contract consumed by the crawler and the read
// paths. A URL counts as indexed only once it has at least one posting; a
// URL discovered purely as a link target has an id but no postings.
type Index interface {
	// IsIndexed reports whether url has been content-crawled.
	IsIndexed(ctx context.Context, url string) (bool, error)

	// AddIndex records one posting per word with dense positions.
	// It is a durable no-op when url is already indexed.
	AddIndex(ctx context.Context, url string, words []string) error

	// AddLinkRef records a link edge from fromURL to toURL together with
	// its anchor words. Self-loops are suppressed.
	AddLinkRef(ctx context.Context, fromURL, toURL string, anchorWords []string) error
}

// PoolConfig controls the Postgres connection pool backing the store.
type PoolConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// NewPool creates a pgx connection pool from cfg and verifies connectivity.
// The same pool is shared by the Store and the Searcher.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}
