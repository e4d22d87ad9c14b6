// Package engine runs the partitioned parse, aggregate and merge pipeline
// over a single file.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/miku/brcreduce/internal/chunk"
	"github.com/miku/brcreduce/internal/measure"
	"github.com/miku/brcreduce/internal/partition"
	"github.com/miku/brcreduce/internal/reduce"
	"github.com/miku/brcreduce/internal/report"
	"github.com/miku/brcreduce/internal/source"
)

// ErrWorkerIO is matched by every error caused by a worker failing to read
// its span.
var ErrWorkerIO = errors.New("worker i/o failure")

// ChunkError identifies the partition and byte span a worker failed on.
type ChunkError struct {
	Index      int
	Start, End int64
	Err        error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%v: partition %d [%d, %d): %v", ErrWorkerIO, e.Index, e.Start, e.End, e.Err)
}

func (e *ChunkError) Unwrap() []error {
	return []error{ErrWorkerIO, e.Err}
}

// Result is the merged table of a run, together with some counters.
type Result struct {
	Table   measure.Table
	Stats   chunk.Stats
	Chunks  int
	Elapsed time.Duration
}

func (r *Result) String() string {
	return report.Format(r.Table)
}

// Run aggregates the file at path. The file is checked before any worker
// starts. If any worker fails, the remaining ones are cancelled and the error
// is returned instead of a partial table.
func Run(ctx context.Context, path string, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	started := time.Now()
	src, err := source.Open(path, cfg.mmap)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	cfg.logger.Debug("starting", "path", path, "size", src.Size(),
		"workers", cfg.workers, "mmap", cfg.mmap)
	res, err := run(ctx, src, cfg)
	if err != nil {
		cfg.logger.Error("run failed", "path", path, "err", err)
		return nil, err
	}
	res.Elapsed = time.Since(started)
	cfg.logger.Debug("done", "keys", len(res.Table), "lines", res.Stats.Lines,
		"skipped", res.Stats.Skipped, "elapsed", res.Elapsed)
	return res, nil
}

// run fans out one task per partition and folds their tables as they arrive.
func run(ctx context.Context, src source.Source, cfg *config) (*Result, error) {
	layout, err := partition.Plan(src.Size(), cfg.workers)
	if err != nil {
		return nil, err
	}
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	var (
		g, gctx = errgroup.WithContext(ctx)
		results = make(chan reduce.Result)
		reducer = reduce.New()
		done    = make(chan struct{})
	)
	if cfg.parallelism > 0 {
		g.SetLimit(cfg.parallelism)
	}
	go func() {
		reducer.Run(results)
		close(done)
	}()
	for _, p := range layout.Partitions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &ChunkError{Index: p.Index, Start: p.Start, End: p.End, Err: err}
			}
			c, err := layout.Align(src, p.Index, cfg.probeSize)
			if err != nil {
				return &ChunkError{Index: p.Index, Start: p.Start, End: p.End, Err: err}
			}
			data, stats, err := chunk.Aggregate(gctx, src, c, cfg.bufferSize)
			if err != nil {
				return &ChunkError{Index: c.Index, Start: c.Start, End: c.End, Err: err}
			}
			cfg.logger.Debug("chunk done", "index", c.Index, "start", c.Start, "end", c.End,
				"lines", stats.Lines, "skipped", stats.Skipped, "keys", len(data))
			results <- reduce.Result{Chunk: c, Table: data, Stats: stats}
			return nil
		})
	}
	err = g.Wait()
	close(results)
	<-done
	if err != nil {
		return nil, err
	}
	return &Result{
		Table:  reducer.Table(),
		Stats:  reducer.Stats(),
		Chunks: reducer.Chunks(),
	}, nil
}

// Summary runs the pipeline and returns the formatted summary line.
func Summary(ctx context.Context, path string, opts ...Option) (string, error) {
	res, err := Run(ctx, path, opts...)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}
