package backoff

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var MaxRetries uint64 = 5

var MaxElapsedTime = 30 * time.Second

// RetryGeneral retries op with exponential backoff until it succeeds, MaxRetries
// is reached or the context is done. backoff.Permanent errors stop immediately.
func RetryGeneral(ctx context.Context, op backoff.Operation) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = MaxElapsedTime

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, MaxRetries), ctx))
}
