// Package gen writes synthetic measurement files.
package gen

import (
	"bufio"
	"context"
	"errors"
	"io"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

const DefaultChunkRows = 10_000_000

var ErrNoStations = errors.New("no stations")

// ReadStations reads station names, one per line, from a ";" separated list.
// Only the first field is used. Lines containing "#" are comments.
func ReadStations(r io.Reader) ([]string, error) {
	var (
		stations []string
		scanner  = bufio.NewScanner(r)
	)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "#") {
			continue
		}
		name, _, _ := strings.Cut(line, ";")
		if name == "" {
			continue
		}
		stations = append(stations, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		return nil, ErrNoStations
	}
	return stations, nil
}

type config struct {
	chunkRows int
	workers   int
	seed      uint64
}

type Option func(*config)

// WithChunkRows sets the number of rows generated per task.
func WithChunkRows(n int) Option {
	return func(c *config) {
		c.chunkRows = n
	}
}

func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithSeed sets the base seed, chunk i is seeded with seed+i.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// Generate writes rows lines of "station;value" to w, with values uniformly
// drawn from [-100, 100) and formatted with two decimals. Chunks are
// generated in parallel and written in the order they complete, so for a
// fixed seed the set of lines is reproducible, but not their order.
func Generate(ctx context.Context, w io.Writer, stations []string, rows int, opts ...Option) error {
	if len(stations) == 0 {
		return ErrNoStations
	}
	cfg := &config{
		chunkRows: DefaultChunkRows,
		workers:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.chunkRows < 1 {
		cfg.chunkRows = DefaultChunkRows
	}
	var (
		g, gctx = errgroup.WithContext(ctx)
		mu      sync.Mutex
	)
	if cfg.workers > 0 {
		g.SetLimit(cfg.workers)
	}
	for i, off := 0, 0; off < rows; i, off = i+1, off+cfg.chunkRows {
		n := min(cfg.chunkRows, rows-off)
		seed := cfg.seed + uint64(i)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b := chunk(stations, n, seed)
			mu.Lock()
			defer mu.Unlock()
			_, err := w.Write(b)
			return err
		})
	}
	return g.Wait()
}

func chunk(stations []string, n int, seed uint64) []byte {
	var (
		rng = rand.New(rand.NewSource(seed))
		b   = make([]byte, 0, n*16)
	)
	for j := 0; j < n; j++ {
		b = append(b, stations[rng.Intn(len(stations))]...)
		b = append(b, ';')
		b = strconv.AppendFloat(b, rng.Float64()*200-100, 'f', 2, 64)
		b = append(b, '\n')
	}
	return b
}
