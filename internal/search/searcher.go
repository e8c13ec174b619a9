// Package search implements the companion read path over the index: a thin
// SQL-join builder that finds URLs containing every query word. It performs
// no ranking of any kind.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/webindex/webindex/internal/tokenizer"
)

// Pool is the subset of pgxpool.Pool the searcher depends on.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Match is one URL containing every query word, with the posting position of
// each word in query order.
type Match struct {
	URL       string `json:"url"`
	Locations []int  `json:"locations"`
}

// Searcher resolves query words to ids and runs the N-way self-join over
// word_location.
type Searcher struct {
	pool   Pool
	logger *zap.Logger
}

// NewSearcher constructs a Searcher over the shared pool.
func NewSearcher(pool Pool, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{pool: pool, logger: logger}
}

// MatchRows returns every indexed URL containing all words of query. Words
// are normalized the same way the indexer normalizes page text; words never
// seen by the indexer are skipped. An empty effective word list yields no
// matches.
func (s *Searcher) MatchRows(ctx context.Context, query string) ([]Match, error) {
	words := tokenizer.Tokenize(query, nil)

	wordIDs := make([]int64, 0, len(words))
	for _, word := range words {
		var id int64
		err := s.pool.QueryRow(ctx, `SELECT id FROM word_list WHERE word = $1`, word).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				s.logger.Debug("query word not in index", zap.String("word", word))
				continue
			}
			return nil, fmt.Errorf("lookup word id: %w", err)
		}
		wordIDs = append(wordIDs, id)
	}
	if len(wordIDs) == 0 {
		return nil, nil
	}

	sql := buildJoinQuery(len(wordIDs))
	args := make([]any, len(wordIDs))
	for i, id := range wordIDs {
		args[i] = id
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("run match query: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		match := Match{Locations: make([]int, len(wordIDs))}
		dest := make([]any, 0, len(wordIDs)+1)
		dest = append(dest, &match.URL)
		for i := range match.Locations {
			dest = append(dest, &match.Locations[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read match rows: %w", err)
	}
	return matches, nil
}

// buildJoinQuery produces the self-join selecting the URL plus one location
// column per word: each word gets its own word_location alias, chained on a
// shared url_id.
func buildJoinQuery(n int) string {
	tables := make([]string, 0, n+1)
	columns := make([]string, 0, n+1)
	clauses := make([]string, 0, 2*n)

	tables = append(tables, "url_list u")
	columns = append(columns, "u.url")

	for i := 0; i < n; i++ {
		alias := fmt.Sprintf("w%d", i)
		tables = append(tables, fmt.Sprintf("word_location %s", alias))
		columns = append(columns, fmt.Sprintf("%s.location", alias))
		clauses = append(clauses, fmt.Sprintf("%s.word_id = $%d", alias, i+1))
		if i == 0 {
			clauses = append(clauses, "w0.url_id = u.id")
		} else {
			clauses = append(clauses, fmt.Sprintf("w%d.url_id = w%d.url_id", i-1, i))
		}
	}

	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s",
		strings.Join(columns, ", "),
		strings.Join(tables, ", "),
		strings.Join(clauses, " AND "),
	)
}
