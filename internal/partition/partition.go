// Package partition splits a file into byte ranges, one per worker, and snaps
// those ranges to line boundaries.
package partition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultProbeSize is the number of bytes read at a time when looking for the
// next newline past a nominal offset.
const DefaultProbeSize = 128

var ErrInvalidWorkerCount = errors.New("worker count must be positive")

// Partition is a nominal, record unaware byte range [Start, End).
type Partition struct {
	Index      int
	Start, End int64
}

// Chunk is the line aligned byte range [Start, End) a worker actually parses.
type Chunk struct {
	Index      int
	Start, End int64
}

func (c Chunk) Len() int64 { return c.End - c.Start }

// Layout is the set of partitions planned for a file of a given size.
type Layout struct {
	Size       int64
	Partitions []Partition
}

// Plan divides size bytes into n contiguous partitions of roughly size/n
// bytes. The last partition absorbs the remainder.
func Plan(size int64, n int) (*Layout, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, n)
	}
	if size < 0 {
		return nil, fmt.Errorf("invalid size: %d", size)
	}
	var (
		target = size / int64(n)
		parts  = make([]Partition, n)
	)
	for i := range parts {
		parts[i] = Partition{
			Index: i,
			Start: int64(i) * target,
			End:   int64(i+1) * target,
		}
	}
	parts[n-1].End = size
	return &Layout{Size: size, Partitions: parts}, nil
}

// Align converts partition i into a chunk. The first chunk starts at zero,
// every other chunk starts right after the first newline at or after its
// nominal start. A chunk ends right after the first newline at or after its
// nominal end, the last chunk ends at the end of the file. Adjacent chunks
// therefore share their boundary and every line belongs to exactly one chunk.
// Probing may read past the nominal end of the partition.
func (l *Layout) Align(r io.ReaderAt, i int, probe int) (Chunk, error) {
	if i < 0 || i >= len(l.Partitions) {
		return Chunk{}, fmt.Errorf("partition %d out of range", i)
	}
	var (
		p   = l.Partitions[i]
		c   = Chunk{Index: i, End: l.Size}
		err error
	)
	if i > 0 {
		if c.Start, err = nextLineStart(r, p.Start, l.Size, probe); err != nil {
			return Chunk{}, err
		}
	}
	if i < len(l.Partitions)-1 {
		if c.End, err = nextLineStart(r, p.End, l.Size, probe); err != nil {
			return Chunk{}, err
		}
	}
	return c, nil
}

// nextLineStart returns the offset just after the first newline at or after
// off, or size if there is none.
func nextLineStart(r io.ReaderAt, off, size int64, probe int) (int64, error) {
	if probe < 1 {
		probe = DefaultProbeSize
	}
	buf := make([]byte, probe)
	for off < size {
		want := int64(len(buf))
		if size-off < want {
			want = size - off
		}
		n, err := r.ReadAt(buf[:want], off)
		if int64(n) < want {
			if err == nil || err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, fmt.Errorf("probe at offset %d: %w", off, err)
		}
		if i := bytes.IndexByte(buf[:n], '\n'); i >= 0 {
			return off + int64(i) + 1, nil
		}
		off += int64(n)
	}
	return size, nil
}
