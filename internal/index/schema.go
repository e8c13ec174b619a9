package index

import (
	"context"
	"fmt"
)

// schemaStatements holds the DDL for the five index tables. Statements are
// idempotent so InitSchema can run against an existing database.
//
// link deliberately has no uniqueness constraint on (from_id, to_id):
// repeated discoveries of the same edge accumulate, one row per anchor seen.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS url_list (
		id BIGSERIAL PRIMARY KEY,
		url TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS word_list (
		id BIGSERIAL PRIMARY KEY,
		word TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS word_location (
		url_id BIGINT NOT NULL REFERENCES url_list (id),
		word_id BIGINT NOT NULL REFERENCES word_list (id),
		location INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS link (
		id BIGSERIAL PRIMARY KEY,
		from_id BIGINT NOT NULL REFERENCES url_list (id),
		to_id BIGINT NOT NULL REFERENCES url_list (id)
	)`,
	`CREATE TABLE IF NOT EXISTS link_words (
		link_id BIGINT NOT NULL REFERENCES link (id),
		word_id BIGINT NOT NULL REFERENCES word_list (id)
	)`,
	`CREATE INDEX IF NOT EXISTS word_location_word_idx ON word_location (word_id)`,
	`CREATE INDEX IF NOT EXISTS word_location_url_idx ON word_location (url_id)`,
	`CREATE INDEX IF NOT EXISTS link_from_idx ON link (from_id)`,
	`CREATE INDEX IF NOT EXISTS link_to_idx ON link (to_id)`,
}

// InitSchema creates the index tables and their lookup indexes.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
