// Package retry provides a bounded poll-until-resolved primitive.
package retry

import (
	"context"
	"time"

	"subclip/generic"
)

// Do calls probe up to attempts times, sleeping interval between calls.
// A probe that returns a value resolves immediately; one that returns
// (None, nil) means "not yet, keep polling"; an error is remembered and
// retried. When attempts are exhausted, Do returns None together with the
// last probe error, which is nil if every attempt simply found nothing.
func Do[T any](ctx context.Context, attempts int, interval time.Duration, probe func(ctx context.Context) (generic.Option[T], error)) (generic.Option[T], error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return generic.None[T](), ctx.Err()
			}
		}
		result, err := probe(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if result.IsSome() {
			return result, nil
		}
	}
	return generic.None[T](), lastErr
}
