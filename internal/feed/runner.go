// internal/feed/runner.go
package feed

import (
	"context"
	"io"
)

// Run decodes the stream and emits one Result per message on out.
// One goroutine per stream. No retries.
// Returns nil when the input is exhausted.
func (f *Feed) Run(ctx context.Context, out chan<- Result) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := f.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- res:
		}
	}
}
