package feed

import (
	"iter"
	"slices"

	"github.com/pkg/errors"

	"github.com/c9s/barfeed/pkg/types"
)

var _ Feed[types.Bar] = (*DataFeed[types.Bar])(nil)

// DataFeed is the generic causality feed.
// Invariant: every record moves from source to latest at most once and in order.
type DataFeed[T types.Dated] struct {
	source []T
	latest []T
}

// NewDataFeed creates an untouched feed, the given records are expected in
// ascending date order and are not sorted.
func NewDataFeed[T types.Dated](source []T) *DataFeed[T] {
	return &DataFeed[T]{
		source: slices.Clone(source),
	}
}

// Streaming reports whether at least one record has been revealed.
func (f *DataFeed[T]) Streaming() bool {
	return len(f.latest) > 0
}

func (f *DataFeed[T]) Update() bool {
	if len(f.source) == 0 {
		return false
	}

	f.latest = append(f.latest, f.source[0])

	var zero T
	f.source[0] = zero
	f.source = f.source[1:]
	return true
}

func (f *DataFeed[T]) Latest() (T, bool) {
	if len(f.latest) == 0 {
		var zero T
		return zero, false
	}

	return f.latest[len(f.latest)-1], true
}

func (f *DataFeed[T]) LatestN(n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}

		for i := len(f.latest) - 1; i >= 0 && len(f.latest)-i <= n; i-- {
			if !yield(f.latest[i]) {
				return
			}
		}
	}
}

// Len returns the number of revealed records.
func (f *DataFeed[T]) Len() int {
	return len(f.latest)
}

// Remaining returns the number of pending records, it is only available before
// the feed starts streaming.
func (f *DataFeed[T]) Remaining() (int, bool) {
	if f.Streaming() {
		return 0, false
	}

	return len(f.source), true
}

func (f *DataFeed[T]) Source() ([]T, bool) {
	if f.Streaming() {
		return nil, false
	}

	return slices.Clone(f.source), true
}

func (f *DataFeed[T]) Truncate(cutoff types.BarDate) error {
	if f.Streaming() {
		return errors.Wrapf(types.ErrSourceLocked, "can not truncate feed to %s", cutoff)
	}

	f.source = slices.DeleteFunc(f.source, func(record T) bool {
		return record.GetDate().Before(cutoff)
	})
	return nil
}
