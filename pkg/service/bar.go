package service

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/c9s/barfeed/pkg/types"
)

const DefaultBarTable = "bars"

const batchInsertSize = 500

var barColumns = []string{"date", "open", "high", "low", "close", "adj_close", "volume"}

// BarService stores the daily bars of every symbol in one table keyed by (symbol, date).
// DatabaseService.Upgrade creates the default table, a custom Table must use the same layout.
type BarService struct {
	DB    *sqlx.DB
	Table string
}

func NewBarService(db *sqlx.DB) *BarService {
	return &BarService{DB: db, Table: DefaultBarTable}
}

func (s *BarService) table() string {
	if s.Table == "" {
		return DefaultBarTable
	}

	return s.Table
}

func (s *BarService) Insert(ctx context.Context, symbol types.Symbol, bar types.Bar) error {
	return s.BatchInsert(ctx, symbol, []types.Bar{bar})
}

// BatchInsert replaces the given bars of the symbol, in chunks.
func (s *BarService) BatchInsert(ctx context.Context, symbol types.Symbol, bars []types.Bar) error {
	for start := 0; start < len(bars); start += batchInsertSize {
		end := min(start+batchInsertSize, len(bars))

		q := sq.Replace(s.table()).Columns(append([]string{"symbol"}, barColumns...)...)
		for _, bar := range bars[start:end] {
			q = q.Values(symbol.String(), bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.AdjClose, bar.Volume)
		}

		sql, args, err := q.ToSql()
		if err != nil {
			return err
		}

		if _, err := s.DB.ExecContext(ctx, sql, args...); err != nil {
			return errors.Wrapf(err, "batch insert %s bars", symbol)
		}
	}

	log.Debugf("inserted %d %s bars into %s", len(bars), symbol, s.table())
	return nil
}

// QueryBars returns the full history of the symbol in ascending date order.
func (s *BarService) QueryBars(ctx context.Context, symbol types.Symbol) ([]types.Bar, error) {
	return s.query(ctx, s.selectBars(symbol))
}

// QueryBarsRange returns the bars of the symbol in [since, until], a zero until means no upper bound.
func (s *BarService) QueryBarsRange(ctx context.Context, symbol types.Symbol, since, until types.BarDate) ([]types.Bar, error) {
	sel := s.selectBars(symbol).Where(sq.GtOrEq{"date": since})
	if !until.IsZero() {
		sel = sel.Where(sq.LtOrEq{"date": until})
	}

	return s.query(ctx, sel)
}

// QuerySymbols returns the symbols stored in the table.
func (s *BarService) QuerySymbols(ctx context.Context) ([]types.Symbol, error) {
	sql, args, err := sq.Select("DISTINCT symbol").From(s.table()).OrderBy("symbol ASC").ToSql()
	if err != nil {
		return nil, err
	}

	var symbols []types.Symbol
	if err := s.DB.SelectContext(ctx, &symbols, sql, args...); err != nil {
		return nil, err
	}

	return symbols, nil
}

func (s *BarService) selectBars(symbol types.Symbol) sq.SelectBuilder {
	return sq.Select(barColumns...).
		From(s.table()).
		Where(sq.Eq{"symbol": symbol.String()}).
		OrderBy("date ASC")
}

func (s *BarService) query(ctx context.Context, sel sq.SelectBuilder) ([]types.Bar, error) {
	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}

	var bars []types.Bar
	if err := s.DB.SelectContext(ctx, &bars, sql, args...); err != nil {
		return nil, err
	}

	return bars, nil
}
