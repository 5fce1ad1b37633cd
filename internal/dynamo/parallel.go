package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFor runs fn over [0, n) split into contiguous chunks of at least
// minChunk indices, with at most workers chunks in flight. workers <= 0 means
// runtime.NumCPU(). The first error returned by fn cancels the remaining
// chunks through ctx.
func ParallelFor(ctx context.Context, n, minChunk, workers int, fn func(ctx context.Context, start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers == 1 {
		return fn(ctx, 0, n)
	}

	chunks := n / minChunk
	if chunks > workers*4 {
		chunks = workers * 4
	}
	chunkSize := (n + chunks - 1) / chunks

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, s, e)
		})
	}

	return g.Wait()
}
