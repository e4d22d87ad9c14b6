// Package chunk aggregates the measurements of a single line aligned chunk.
package chunk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/miku/brcreduce/internal/measure"
	"github.com/miku/brcreduce/internal/partition"
	"github.com/miku/brcreduce/internal/record"
)

// DefaultBufferSize is the read buffer used per worker.
const DefaultBufferSize = 1 << 20

// ErrTruncated is returned when a chunk yields fewer bytes than planned, e.g.
// because the file shrank while reading.
var ErrTruncated = errors.New("chunk truncated")

// Stats counts what a worker has seen.
type Stats struct {
	Bytes   int64
	Lines   int
	Skipped int
}

func (s *Stats) Add(o Stats) {
	s.Bytes += o.Bytes
	s.Lines += o.Lines
	s.Skipped += o.Skipped
}

// reader counts bytes and stops on context cancellation, checked once per
// buffer refill.
type reader struct {
	ctx context.Context
	r   io.Reader
	n   int64
}

func (r *reader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := r.r.Read(p)
	r.n += int64(n)
	return n, err
}

// Aggregate reads the bytes of c from ra, parses every line and folds the
// values into a fresh table. Lines that do not parse are skipped and counted.
// The returned table is owned by the caller.
func Aggregate(ctx context.Context, ra io.ReaderAt, c partition.Chunk, bufSize int) (measure.Table, Stats, error) {
	if bufSize < 16 {
		bufSize = DefaultBufferSize
	}
	var (
		data  = make(measure.Table)
		stats Stats
		rd    = &reader{ctx: ctx, r: io.NewSectionReader(ra, c.Start, c.Len())}
		br    = bufio.NewReaderSize(rd, bufSize)
		long  []byte // only used for lines exceeding the buffer
	)
	for {
		line, err := br.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			long = append(long, line...)
			continue
		}
		if err != nil && err != io.EOF {
			return nil, stats, err
		}
		if long != nil {
			line = append(long, line...)
			long = nil
		}
		if len(line) > 0 {
			if line[len(line)-1] == '\n' {
				line = line[:len(line)-1]
			}
			stats.Lines++
			if key, v, perr := record.Parse(line); perr == nil {
				data.Observe(key, v)
			} else {
				stats.Skipped++
			}
		}
		if err == io.EOF {
			break
		}
	}
	stats.Bytes = rd.n
	if rd.n < c.Len() {
		return nil, stats, fmt.Errorf("%w: read %d of %d bytes", ErrTruncated, rd.n, c.Len())
	}
	return data, stats, nil
}
