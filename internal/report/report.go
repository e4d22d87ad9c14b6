// Package report renders the merged table.
package report

import (
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/miku/brcreduce/internal/measure"
)

// Format renders the table as {key=min/avg/max, ...} with keys in ascending
// byte order and two decimals per number. An empty table renders as {}.
func Format(t measure.Table) string {
	var (
		sb  strings.Builder
		num []byte
	)
	sb.WriteByte('{')
	for i, k := range t.Keys() {
		m := t[k]
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		num = strconv.AppendFloat(num[:0], m.Min, 'f', 2, 64)
		num = append(num, '/')
		num = strconv.AppendFloat(num, m.Avg(), 'f', 2, 64)
		num = append(num, '/')
		num = strconv.AppendFloat(num, m.Max, 'f', 2, 64)
		sb.Write(num)
	}
	sb.WriteByte('}')
	return sb.String()
}

// Write writes the formatted table and a trailing newline to w.
func Write(w io.Writer, t measure.Table) error {
	_, err := io.WriteString(w, Format(t)+"\n")
	return err
}

// Fingerprint hashes key, count, min and max of every entry in key order.
// Sums are left out, as they depend on summation order, so the fingerprint
// is the same for any number of workers.
func Fingerprint(t measure.Table) uint64 {
	var (
		d   = xxhash.New()
		buf = make([]byte, 0, 24)
	)
	for _, k := range t.Keys() {
		m := t[k]
		_, _ = d.WriteString(k)
		_, _ = d.Write([]byte{0})
		buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(m.Count))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(m.Min))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(m.Max))
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}
