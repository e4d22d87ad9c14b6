package engine

import (
	"io"
	"runtime"
	"time"

	"golang.org/x/exp/slog"

	"github.com/miku/brcreduce/internal/chunk"
	"github.com/miku/brcreduce/internal/partition"
)

type config struct {
	workers     int
	parallelism int
	mmap        bool
	timeout     time.Duration
	probeSize   int
	bufferSize  int
	logger      *slog.Logger
}

func defaultConfig() *config {
	return &config{
		workers:     runtime.NumCPU(),
		parallelism: runtime.GOMAXPROCS(0),
		mmap:        true,
		probeSize:   partition.DefaultProbeSize,
		bufferSize:  chunk.DefaultBufferSize,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type Option func(*config)

// WithWorkers sets the number of partitions the file is split into.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithParallelism limits how many partitions are processed at the same time.
func WithParallelism(n int) Option {
	return func(c *config) {
		c.parallelism = n
	}
}

// WithMmap toggles memory mapping, otherwise the file is read with ReadAt.
func WithMmap(enabled bool) Option {
	return func(c *config) {
		c.mmap = enabled
	}
}

// WithTimeout aborts the whole run after d. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

func WithProbeSize(n int) Option {
	return func(c *config) {
		c.probeSize = n
	}
}

func WithBufferSize(n int) Option {
	return func(c *config) {
		c.bufferSize = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
