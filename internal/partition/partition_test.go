package partition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestPlanExhaustive(t *testing.T) {
	for _, size := range []int64{0, 1, 7, 100, 1023} {
		for _, n := range []int{1, 2, 3, 8, 200} {
			l, err := Plan(size, n)
			require.NoError(t, err)
			require.Len(t, l.Partitions, n)
			var off int64
			for i, p := range l.Partitions {
				assert.Equal(t, i, p.Index)
				assert.Equal(t, off, p.Start, "gap or overlap at %d (size=%d, n=%d)", i, size, n)
				assert.LessOrEqual(t, p.Start, p.End)
				off = p.End
			}
			assert.Equal(t, size, off)
		}
	}
}

func TestPlanTargetSize(t *testing.T) {
	l, err := Plan(103, 4)
	require.NoError(t, err)
	assert.Equal(t, []Partition{
		{0, 0, 25}, {1, 25, 50}, {2, 50, 75}, {3, 75, 103},
	}, l.Partitions)
}

func TestPlanInvalidWorkers(t *testing.T) {
	_, err := Plan(10, 0)
	assert.ErrorIs(t, err, ErrInvalidWorkerCount)
	_, err = Plan(10, -3)
	assert.ErrorIs(t, err, ErrInvalidWorkerCount)
}

// lines returns the lines claimed by each chunk of data split n ways.
func lines(t *testing.T, data []byte, n, probe int) [][]string {
	l, err := Plan(int64(len(data)), n)
	require.NoError(t, err)
	r := bytes.NewReader(data)
	var (
		result [][]string
		off    int64
	)
	for i := range l.Partitions {
		c, err := l.Align(r, i, probe)
		require.NoError(t, err)
		require.Equal(t, off, c.Start, "chunks must be contiguous")
		require.LessOrEqual(t, c.Start, c.End)
		off = c.End
		if c.Index > 0 && c.Start < c.End {
			require.Equal(t, byte('\n'), data[c.Start-1], "chunk must start on a line")
		}
		var ls []string
		for _, s := range strings.SplitAfter(string(data[c.Start:c.End]), "\n") {
			if s != "" {
				ls = append(ls, s)
			}
		}
		result = append(result, ls)
	}
	require.Equal(t, int64(len(data)), off)
	return result
}

func TestAlignEveryLineOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		var (
			buf  bytes.Buffer
			want []string
		)
		count := rng.Intn(40)
		for i := 0; i < count; i++ {
			line := fmt.Sprintf("%s;%d.%d\n", strings.Repeat("x", rng.Intn(30)), i, rng.Intn(10))
			want = append(want, line)
			buf.WriteString(line)
		}
		if rng.Intn(2) == 0 {
			want = append(want, "tail;1.0")
			buf.WriteString("tail;1.0")
		}
		for _, n := range []int{1, 2, 3, 5, 16, 64} {
			for _, probe := range []int{1, 4, DefaultProbeSize} {
				var got []string
				for _, ls := range lines(t, buf.Bytes(), n, probe) {
					got = append(got, ls...)
				}
				assert.Equal(t, want, got, "n=%d probe=%d", n, probe)
			}
		}
	}
}

func TestAlignBoundaryOnNewline(t *testing.T) {
	// partition 1 starts exactly at the beginning of "b;2.0", which is
	// claimed by chunk 0 since its end snaps to the newline after "b;2.0"
	data := []byte("a;1.0\nb;2.0\nc;3.0\n")
	chunks := lines(t, data, 3, DefaultProbeSize)
	assert.Equal(t, [][]string{{"a;1.0\n", "b;2.0\n"}, {"c;3.0\n"}, nil}, chunks)
}

func TestAlignNoNewline(t *testing.T) {
	data := []byte("single;1.0")
	chunks := lines(t, data, 4, 2)
	assert.Equal(t, [][]string{{"single;1.0"}, nil, nil, nil}, chunks)
}

type shortReader struct{ r io.ReaderAt }

func (s shortReader) ReadAt(p []byte, off int64) (int, error) {
	if off > 0 {
		return 0, io.EOF
	}
	return s.r.ReadAt(p, off)
}

func TestAlignTruncated(t *testing.T) {
	data := []byte("aaaa;1.0\nbbbb;2.0\n")
	l, err := Plan(int64(len(data)), 2)
	require.NoError(t, err)
	_, err = l.Align(shortReader{bytes.NewReader(data)}, 1, 4)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestAlignOutOfRange(t *testing.T) {
	l, err := Plan(10, 2)
	require.NoError(t, err)
	_, err = l.Align(bytes.NewReader(make([]byte, 10)), 2, 0)
	assert.Error(t, err)
}
