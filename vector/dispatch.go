// seehuhn.de/go/xyscope - draw pictures on an oscilloscope
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package vector

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/xyscope"
)

// Split divides items into at most n contiguous chunks of nearly equal
// size.  The first len(items)%n chunks are one element longer than the
// rest.  Empty chunks are omitted.
func Split[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	size, extra := len(items)/n, len(items)%n

	var res [][]T
	start := 0
	for i := range n {
		end := start + size
		if i < extra {
			end++
		}
		if end > start {
			res = append(res, items[start:end])
		}
		start = end
	}
	return res
}

// ChunkFunc converts one chunk of frames into beam positions.
type ChunkFunc[T any] func(ctx context.Context, chunk []T, log *slog.Logger) (xyscope.Samples, error)

// Dispatch splits items into workers chunks, processes the chunks
// concurrently and concatenates the results in chunk order.
//
// If any chunk fails, the context passed to the other chunks is cancelled
// and the first error is returned.
func Dispatch[T any](ctx context.Context, items []T, workers int, log *slog.Logger, fn ChunkFunc[T]) (xyscope.Samples, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	chunks := Split(items, workers)
	results := make([]xyscope.Samples, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, chunk := range chunks {
		g.Go(func() error {
			chunkLog := log.With("chunk", i)
			chunkLog.Debug("chunk started", "frames", len(chunk))
			res, err := fn(ctx, chunk, chunkLog)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return xyscope.Samples{}, err
	}
	return xyscope.Concat(results), nil
}

// Convert runs the sampler over the given frame files using
// cfg.Workers parallel chunks.  Each chunk starts from
// [Sampler.InitialBounds].
func Convert(ctx context.Context, cfg *xyscope.Config, s *Sampler, files []string) (xyscope.Samples, error) {
	return Dispatch(ctx, files, cfg.Workers, s.log(),
		func(ctx context.Context, chunk []string, log *slog.Logger) (xyscope.Samples, error) {
			cs := *s
			cs.Logger = log
			return cs.Files(ctx, chunk)
		})
}
