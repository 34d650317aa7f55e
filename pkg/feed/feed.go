// Package feed implements the causality feed: an ordered sequence split into a
// pending source that has not been revealed yet and the revealed latest records.
//
// A feed starts untouched: nothing is revealed and the whole source can be read
// or truncated. The first successful Update switches it to streaming for good,
// after that the remaining source is locked so the future can not be looked at.
package feed

import (
	"iter"

	"github.com/c9s/barfeed/pkg/types"
)

// Updater reveals the next record of a feed.
type Updater interface {
	// Update moves the next pending record into the revealed records.
	// It returns false when there is nothing left to reveal.
	Update() bool
}

// LatestReader reads the revealed records of a feed.
type LatestReader[T any] interface {
	// Latest returns the most recently revealed record.
	Latest() (T, bool)

	// LatestN yields at most n revealed records, most recent first.
	LatestN(n int) iter.Seq[T]
}

// SourceReader reads the pending records of a feed before the replay starts.
type SourceReader[T any] interface {
	// Source returns the pending records while nothing has been revealed yet.
	Source() ([]T, bool)
}

// Truncater drops the pending records before a cutoff date.
type Truncater interface {
	Truncate(cutoff types.BarDate) error
}

// Feed is the full capability set of a causality feed.
type Feed[T any] interface {
	Updater
	LatestReader[T]
	SourceReader[T]
	Truncater
}
