package gen

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miku/brcreduce/internal/record"
)

func TestReadStations(t *testing.T) {
	data := `# Adapted from https://simplemaps.com/data/world-cities
# Licensed under Creative Commons Attribution 4.0
Tokyo;35.6897
Jakarta;-6.1750

São Paulo;-23.5500
`
	stations, err := ReadStations(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"Tokyo", "Jakarta", "São Paulo"}, stations)

	_, err = ReadStations(strings.NewReader("# only comments\n"))
	assert.ErrorIs(t, err, ErrNoStations)
}

func sortedLines(b []byte) []string {
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	sort.Strings(lines)
	return lines
}

func TestGenerate(t *testing.T) {
	stations := []string{"Tokyo", "Jakarta", "Oslo"}
	var a, b bytes.Buffer
	require.NoError(t, Generate(context.Background(), &a, stations, 1001, WithChunkRows(100), WithWorkers(4), WithSeed(3)))
	require.NoError(t, Generate(context.Background(), &b, stations, 1001, WithChunkRows(100), WithWorkers(1), WithSeed(3)))

	lines := sortedLines(a.Bytes())
	require.Len(t, lines, 1001)
	assert.Equal(t, lines, sortedLines(b.Bytes()))
	for _, line := range lines {
		key, v, err := record.Parse([]byte(line))
		require.NoError(t, err, line)
		assert.Contains(t, stations, string(key))
		assert.GreaterOrEqual(t, v, -100.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestGenerateNoStations(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Generate(context.Background(), &buf, nil, 10), ErrNoStations)
}

func TestGenerateZeroRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(context.Background(), &buf, []string{"a"}, 0))
	assert.Zero(t, buf.Len())
}
