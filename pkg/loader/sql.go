package loader

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/c9s/barfeed/pkg/service"
	"github.com/c9s/barfeed/pkg/types"
)

var _ DataLoader = (*SQLLoader)(nil)

// SQLLoader loads bars from the bar table maintained by service.BarService.
type SQLLoader struct {
	BarService *service.BarService

	// Source names the database in the cache key, usually the DSN
	Source string

	// Since and Until limit the queried range when set
	Since, Until types.BarDate
}

func NewSQLLoader(db *sqlx.DB, table string) *SQLLoader {
	barService := service.NewBarService(db)
	if table != "" {
		barService.Table = table
	}

	return &SQLLoader{BarService: barService}
}

func (l *SQLLoader) CacheKey() string {
	return fmt.Sprintf("sql:%s:%s:%s:%s~%s", l.BarService.DB.DriverName(), l.Source, l.BarService.Table, l.Since, l.Until)
}

func (l *SQLLoader) Load(ctx context.Context, symbol types.Symbol) ([]types.Bar, error) {
	var bars []types.Bar
	var err error
	if l.Since.IsZero() && l.Until.IsZero() {
		bars, err = l.BarService.QueryBars(ctx, symbol)
	} else {
		bars, err = l.BarService.QueryBarsRange(ctx, symbol, l.Since, l.Until)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "sql loader: %s", symbol)
	}

	if len(bars) == 0 {
		return nil, errors.Wrapf(types.ErrSymbolNotFound, "sql loader: %s", symbol)
	}

	return bars, nil
}
