package config

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/c9s/barfeed/pkg/loader"
	"github.com/c9s/barfeed/pkg/strategy/smacross"
	"github.com/c9s/barfeed/pkg/types"
)

func TestLoad(t *testing.T) {
	config, err := Load("testdata/replay.yaml")
	require.NoError(t, err)

	assert.Equal(t, []types.Symbol{"IVV", "EFA"}, config.Replay.Symbols)
	assert.Equal(t, "2020-01-07", config.Replay.StartDate.String())
	assert.Equal(t, "2020-01-10", config.Replay.EndDate.String())
	assert.Equal(t, SourceCSV, config.Source.Driver)
	assert.Equal(t, "../loader/testdata", config.Source.CSV.Dir)

	if assert.Len(t, config.Strategies, 1) {
		st, ok := config.Strategies[0].(*smacross.Strategy)
		if assert.True(t, ok) {
			assert.Equal(t, types.Symbol("IVV"), st.Symbol)
			assert.Equal(t, 2, st.FastWindow)
			assert.Equal(t, 3, st.SlowWindow)
		}
	}

	dataLoader, closer, err := config.NewLoader(context.Background())
	require.NoError(t, err)
	defer closer.Close()

	_, ok := dataLoader.(*loader.CSVLoader)
	assert.True(t, ok)

	bars, err := dataLoader.Load(context.Background(), "EFA")
	assert.NoError(t, err)
	assert.Len(t, bars, 5)
}

func TestLoad_SQLSource(t *testing.T) {
	config, err := Load("testdata/sql.yaml")
	require.NoError(t, err)

	assert.Equal(t, SourceSQL, config.Source.Driver)
	assert.Equal(t, "daily_bars", config.Source.SQL.Table)
	if assert.NotNil(t, config.Source.Cache) {
		assert.Equal(t, time.Hour, config.Source.Cache.Expiry)
	}
	assert.Empty(t, config.Strategies)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	require.Error(t, err)

	errs := multierr.Errors(err)
	assert.Len(t, errs, 4)
	assert.Contains(t, err.Error(), "replay.symbols")
	assert.Contains(t, err.Error(), "replay.endDate")
	assert.Contains(t, err.Error(), "source.sql.driver")
	assert.Contains(t, err.Error(), "fastWindow 5 must be less than slowWindow 3")
}

func TestLoadFromBytes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name:    "default csv source",
			content: "replay:\n  symbols: [IVV]\nsource:\n  csv:\n    dir: data\n",
		},
		{
			name:    "invalid symbol",
			content: "replay:\n  symbols: [TOOLONG]\nsource:\n  csv:\n    dir: data\n",
			wantErr: true,
		},
		{
			name:    "unknown strategy",
			content: "replay:\n  symbols: [IVV]\nsource:\n  csv:\n    dir: data\nstrategies:\n- unknown: {}\n",
			wantErr: true,
		},
		{
			name:    "strategies must be a list",
			content: "replay:\n  symbols: [IVV]\nsource:\n  csv:\n    dir: data\nstrategies:\n  smacross: {}\n",
			wantErr: true,
		},
		{
			name:    "unsupported driver",
			content: "replay:\n  symbols: [IVV]\nsource:\n  driver: kafka\n",
			wantErr: true,
		},
		{
			name:    "redis source",
			content: "replay:\n  symbols: [IVV]\nsource:\n  driver: redis\n  redis:\n    host: 127.0.0.1\n    port: \"6379\"\n    namespace: barfeed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.content))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLoader_SQLSource(t *testing.T) {
	dir := t.TempDir()
	content := fmt.Sprintf(`---
replay:
  symbols: [IVV]
  endDate: "2020-01-03"
source:
  driver: sql
  sql:
    driver: sqlite3
    dsn: %q
  cache:
    dir: %q
`, filepath.Join(dir, "bars.db"), filepath.Join(dir, "cache"))

	config, err := LoadFromBytes([]byte(content))
	require.NoError(t, err)

	ctx := context.Background()
	dataLoader, closer, err := config.NewLoader(ctx)
	require.NoError(t, err)
	defer closer.Close()

	cachedLoader, ok := dataLoader.(*loader.CachedLoader)
	require.True(t, ok)

	sqlLoader, ok := cachedLoader.Loader.(*loader.SQLLoader)
	require.True(t, ok)
	assert.Contains(t, sqlLoader.CacheKey(), "~2020-01-03")

	// the bar table is created by the schema upgrade, it is just empty
	_, err = dataLoader.Load(ctx, "IVV")
	assert.ErrorIs(t, err, types.ErrSymbolNotFound)
}
