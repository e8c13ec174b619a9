package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Table identifies one of the two natural-key tables.
type Table string

// Natural-key tables exposed through LookupID.
const (
	TableURLs  Table = "url_list"
	TableWords Table = "word_list"
)

// column returns the natural-key column for the table.
func (t Table) column() (string, error) {
	switch t {
	case TableURLs:
		return "url", nil
	case TableWords:
		return "word", nil
	default:
		return "", fmt.Errorf("unknown table %q", string(t))
	}
}

// Pool is the subset of pgxpool.Pool the store depends on. It is an
// interface so pgxmock can stand in during tests.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// querier is satisfied by both Pool and pgx.Tx, letting the id helpers run
// inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Postgres-backed Index implementation.
type Store struct {
	pool Pool
}

// NewStore wraps an existing pool. The caller owns the pool lifecycle when
// sharing it with other components; Close releases it.
func NewStore(pool Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// ensureID returns the id for value in table, inserting it first if absent.
// The upsert form makes lookup-or-insert a single atomic statement, so it
// stays correct under concurrent workers racing on the same value.
func ensureID(ctx context.Context, q querier, table Table, value string) (int64, error) {
	column, err := table.column()
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES ($1) ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s RETURNING id`,
		table, column, column, column, column,
	)
	var id int64
	if err := q.QueryRow(ctx, query, value).Scan(&id); err != nil {
		return 0, fmt.Errorf("ensure %s id: %w", column, err)
	}
	return id, nil
}

// LookupID returns the id for value in table, or ErrNotFound when the value
// has never been recorded. It never creates identifiers.
func (s *Store) LookupID(ctx context.Context, table Table, value string) (int64, error) {
	column, err := table.column()
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1`, table, column)
	var id int64
	if err := s.pool.QueryRow(ctx, query, value).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s %q", ErrNotFound, column, value)
		}
		return 0, fmt.Errorf("lookup %s id: %w", column, err)
	}
	return id, nil
}

// IsIndexed reports whether url has been content-crawled: it must have a URL
// record and at least one posting. A URL known only as a link target does
// not count.
func (s *Store) IsIndexed(ctx context.Context, url string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM url_list u
		JOIN word_location wl ON wl.url_id = u.id
		WHERE u.url = $1
	)`
	var indexed bool
	if err := s.pool.QueryRow(ctx, query, url).Scan(&indexed); err != nil {
		return false, fmt.Errorf("check indexed: %w", err)
	}
	return indexed, nil
}

// AddIndex records one posting per word for url, positions dense in word
// order. When url already has postings the call commits nothing and returns
// nil, so re-indexing is always a no-op. The indexed check and the posting
// writes share one transaction with the URL row locked, so two workers
// cannot both observe "not indexed" and both write.
func (s *Store) AddIndex(ctx context.Context, url string, words []string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		urlID, err := ensureID(ctx, tx, TableURLs, url)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `SELECT id FROM url_list WHERE id = $1 FOR UPDATE`, urlID); err != nil {
			return fmt.Errorf("lock url row: %w", err)
		}

		var indexed bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM word_location WHERE url_id = $1)`, urlID,
		).Scan(&indexed)
		if err != nil {
			return fmt.Errorf("check postings: %w", err)
		}
		if indexed {
			return nil
		}

		for location, word := range words {
			wordID, err := ensureID(ctx, tx, TableWords, word)
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx,
				`INSERT INTO word_location (url_id, word_id, location) VALUES ($1, $2, $3)`,
				urlID, wordID, location,
			)
			if err != nil {
				return fmt.Errorf("insert posting: %w", err)
			}
		}
		return nil
	})
}

// AddLinkRef records a link edge from fromURL to toURL plus one link_words
// row per anchor word. Both URLs get ids assigned on first sight. A
// self-loop commits nothing beyond the URL id. Duplicate edges for the same
// pair are recorded again on purpose.
func (s *Store) AddLinkRef(ctx context.Context, fromURL, toURL string, anchorWords []string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		fromID, err := ensureID(ctx, tx, TableURLs, fromURL)
		if err != nil {
			return err
		}
		toID, err := ensureID(ctx, tx, TableURLs, toURL)
		if err != nil {
			return err
		}
		if fromID == toID {
			return nil
		}

		var linkID int64
		err = tx.QueryRow(ctx,
			`INSERT INTO link (from_id, to_id) VALUES ($1, $2) RETURNING id`,
			fromID, toID,
		).Scan(&linkID)
		if err != nil {
			return fmt.Errorf("insert link: %w", err)
		}

		for _, word := range anchorWords {
			wordID, err := ensureID(ctx, tx, TableWords, word)
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx,
				`INSERT INTO link_words (link_id, word_id) VALUES ($1, $2)`,
				linkID, wordID,
			)
			if err != nil {
				return fmt.Errorf("insert link word: %w", err)
			}
		}
		return nil
	})
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
