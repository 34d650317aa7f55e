package types

import "github.com/pkg/errors"

var (
	// ErrInvalidSymbol is returned when a symbol is empty or longer than MaxSymbolLength.
	ErrInvalidSymbol = errors.New("symbol must be 1 to 5 characters")

	// ErrInsufficientSource is returned when a derived series can not be calculated
	// from the given history, either because the history is shorter than the
	// required window or because the calculation produced nothing.
	ErrInsufficientSource = errors.New("not enough source data")

	// ErrSourceLocked is returned when the pending source of a feed is accessed
	// after the feed started streaming.
	ErrSourceLocked = errors.New("can not access data source after replay start")

	// ErrIndicatorAlreadyFilled is returned by a second Fill call on the same indicator.
	ErrIndicatorAlreadyFilled = errors.New("indicator is already filled")

	// ErrUnknownSeries is returned when a symbol is not managed by the data handler.
	ErrUnknownSeries = errors.New("unknown series")

	// ErrNoIndicators is returned when a strategy without indicators is asked to fill them.
	ErrNoIndicators = errors.New("strategy has no indicators")

	// ErrSymbolNotFound is returned by loaders that have no data for the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
)
