package index

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	store, err := NewStore(mock)
	require.NoError(t, err)
	return store, mock
}

func idRows(id int64) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id"}).AddRow(id)
}

func existsRows(exists bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"exists"}).AddRow(exists)
}

func TestNewStoreRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := NewStore(nil)
	require.Error(t, err)
}

func TestLookupIDFound(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id FROM url_list WHERE url").
		WithArgs("http://example.com/").
		WillReturnRows(idRows(7))

	id, err := store.LookupID(context.Background(), TableURLs, "http://example.com/")
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupIDNotFound(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id FROM word_list WHERE word").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.LookupID(context.Background(), TableWords, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupIDUnknownTable(t *testing.T) {
	t.Parallel()

	store, _ := newMockStore(t)

	_, err := store.LookupID(context.Background(), Table("postings"), "x")
	require.Error(t, err)
}

func TestIsIndexed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		indexed bool
	}{
		{name: "indexed url", indexed: true},
		{name: "url without postings", indexed: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, mock := newMockStore(t)

			mock.ExpectQuery("SELECT EXISTS").
				WithArgs("http://example.com/").
				WillReturnRows(existsRows(tt.indexed))

			got, err := store.IsIndexed(context.Background(), "http://example.com/")
			require.NoError(t, err)
			require.Equal(t, tt.indexed, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAddIndexWritesDensePositions(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	const url = "http://example.com/page"
	words := []string{"foo", "bar", "python", "nah"}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO url_list").
		WithArgs(url).
		WillReturnRows(idRows(1))
	mock.ExpectExec("SELECT id FROM url_list WHERE id").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1)).
		WillReturnRows(existsRows(false))
	for i, word := range words {
		mock.ExpectQuery("INSERT INTO word_list").
			WithArgs(word).
			WillReturnRows(idRows(int64(10 + i)))
		mock.ExpectExec("INSERT INTO word_location").
			WithArgs(int64(1), int64(10+i), i).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	err := store.AddIndex(context.Background(), url, words)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddIndexSkipsAlreadyIndexedURL(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO url_list").
		WithArgs("http://example.com/").
		WillReturnRows(idRows(3))
	mock.ExpectExec("SELECT id FROM url_list WHERE id").
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(3)).
		WillReturnRows(existsRows(true))
	mock.ExpectCommit()

	// No posting inserts expected: re-indexing is a no-op.
	err := store.AddIndex(context.Background(), "http://example.com/", []string{"foo", "bar"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddIndexRollsBackOnInsertFailure(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO url_list").
		WithArgs("http://example.com/").
		WillReturnRows(idRows(3))
	mock.ExpectExec("SELECT id FROM url_list WHERE id").
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(3)).
		WillReturnRows(existsRows(false))
	mock.ExpectQuery("INSERT INTO word_list").
		WithArgs("foo").
		WillReturnError(pgx.ErrTxCommitRollback)
	mock.ExpectRollback()

	err := store.AddIndex(context.Background(), "http://example.com/", []string{"foo"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLinkRefRecordsEdgeAndAnchorWords(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO url_list").
		WithArgs("http://a.com/").
		WillReturnRows(idRows(1))
	mock.ExpectQuery("INSERT INTO url_list").
		WithArgs("http://b.com/").
		WillReturnRows(idRows(2))
	mock.ExpectQuery("INSERT INTO link").
		WithArgs(int64(1), int64(2)).
		WillReturnRows(idRows(50))
	mock.ExpectQuery("INSERT INTO word_list").
		WithArgs("anchor").
		WillReturnRows(idRows(9))
	mock.ExpectExec("INSERT INTO link_words").
		WithArgs(int64(50), int64(9)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := store.AddLinkRef(context.Background(), "http://a.com/", "http://b.com/", []string{"anchor"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLinkRefSuppressesSelfLoops(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO url_list").
		WithArgs("http://a.com/").
		WillReturnRows(idRows(1))
	mock.ExpectQuery("INSERT INTO url_list").
		WithArgs("http://a.com/").
		WillReturnRows(idRows(1))
	mock.ExpectCommit()

	// No link or link_words inserts: same from and to id.
	err := store.AddLinkRef(context.Background(), "http://a.com/", "http://a.com/", []string{"home"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLinkRefPermitsDuplicateEdges(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO url_list").
			WithArgs("http://a.com/").
			WillReturnRows(idRows(1))
		mock.ExpectQuery("INSERT INTO url_list").
			WithArgs("http://b.com/").
			WillReturnRows(idRows(2))
		mock.ExpectQuery("INSERT INTO link").
			WithArgs(int64(1), int64(2)).
			WillReturnRows(idRows(51))
		mock.ExpectCommit()
	}

	for i := 0; i < 2; i++ {
		err := store.AddLinkRef(context.Background(), "http://a.com/", "http://b.com/", nil)
		require.NoError(t, err)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInitSchema(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	for range schemaStatements {
		mock.ExpectExec("CREATE").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
	}

	err := store.InitSchema(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
