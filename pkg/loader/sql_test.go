package loader

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/barfeed/pkg/types"
)

func TestSQLLoader(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	loader := NewSQLLoader(sqlx.NewDb(db, "sqlmock"), "daily_bars")
	columns := []string{"date", "open", "high", "low", "close", "adj_close", "volume"}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT date, open, high, low, close, adj_close, volume FROM daily_bars WHERE symbol = ? ORDER BY date ASC")).
		WithArgs("IVV").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("2020-01-02", 1.0, 2.0, 0.5, 1.5, 1.4, int64(100)))

	mock.ExpectQuery(regexp.QuoteMeta("FROM daily_bars WHERE symbol = ?")).
		WithArgs("EFA").
		WillReturnRows(sqlmock.NewRows(columns))

	ctx := context.Background()
	bars, err := loader.Load(ctx, "IVV")
	require.NoError(t, err)
	if assert.Len(t, bars, 1) {
		assert.Equal(t, types.MustParseBarDate("2020-01-02"), bars[0].Date)
	}

	_, err = loader.Load(ctx, "EFA")
	assert.ErrorIs(t, err, types.ErrSymbolNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLoader_CacheKey(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	loader := NewSQLLoader(sqlx.NewDb(db, "sqlmock"), "")
	loader.Source = "file:bars.db"
	assert.Equal(t, "sql:sqlmock:file:bars.db:bars:0001-01-01~0001-01-01", loader.CacheKey())

	before := loader.CacheKey()
	loader.Until = types.MustParseBarDate("2020-01-03")
	assert.NotEqual(t, before, loader.CacheKey())
	assert.Contains(t, loader.CacheKey(), "~2020-01-03")
}
