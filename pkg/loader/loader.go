// Package loader provides the data loaders that return the complete bar
// history of a symbol in ascending date order.
package loader

import (
	"context"
	"slices"

	"github.com/pkg/errors"

	"github.com/c9s/barfeed/pkg/types"
)

// DataLoader loads the complete bar history of a symbol, oldest first.
type DataLoader interface {
	Load(ctx context.Context, symbol types.Symbol) ([]types.Bar, error)
}

// CacheKeyer is implemented by the loaders whose result depends on their
// settings. The key must change whenever the loaded history may change.
type CacheKeyer interface {
	CacheKey() string
}

// LoaderFunc is an adapter to use an ordinary function as a DataLoader.
type LoaderFunc func(ctx context.Context, symbol types.Symbol) ([]types.Bar, error)

func (f LoaderFunc) Load(ctx context.Context, symbol types.Symbol) ([]types.Bar, error) {
	return f(ctx, symbol)
}

var _ DataLoader = (*MemoryLoader)(nil)

// MemoryLoader serves bars from memory.
type MemoryLoader struct {
	Bars map[types.Symbol][]types.Bar
}

func NewMemoryLoader(bars map[types.Symbol][]types.Bar) *MemoryLoader {
	if bars == nil {
		bars = make(map[types.Symbol][]types.Bar)
	}

	return &MemoryLoader{Bars: bars}
}

// Add appends bars to the history of the symbol.
func (l *MemoryLoader) Add(symbol types.Symbol, bars ...types.Bar) {
	l.Bars[symbol] = append(l.Bars[symbol], bars...)
}

func (l *MemoryLoader) Load(_ context.Context, symbol types.Symbol) ([]types.Bar, error) {
	bars, ok := l.Bars[symbol]
	if !ok {
		return nil, errors.Wrapf(types.ErrSymbolNotFound, "memory loader: %s", symbol)
	}

	return slices.Clone(bars), nil
}
