// Package record decodes single "key;value" lines.
package record

import (
	"bytes"
	"errors"
	"math"
	"strconv"
)

var (
	// ErrMalformedRecord is returned for lines without exactly one separator.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvalidValue is returned when the value is not a finite decimal number.
	ErrInvalidValue = errors.New("invalid value")
)

const Separator = ';'

// Parse splits a line (without trailing newline) into key and value. The
// returned key aliases line. Whitespace around the value is ignored, the key
// is taken verbatim and may be empty.
func Parse(line []byte) (key []byte, value float64, err error) {
	key, v, found := bytes.Cut(line, []byte{Separator})
	if !found || bytes.IndexByte(v, Separator) >= 0 {
		return nil, 0, ErrMalformedRecord
	}
	v = bytes.TrimSpace(v)
	if !isDecimal(v) {
		return nil, 0, ErrInvalidValue
	}
	value, err = strconv.ParseFloat(string(v), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, 0, ErrInvalidValue
	}
	if value == 0 {
		value = 0 // no negative zero, min and max must not depend on order
	}
	return key, value, nil
}

// isDecimal rejects the spellings ParseFloat accepts beyond plain decimal
// notation: hex floats, underscores, inf and nan.
func isDecimal(v []byte) bool {
	if len(v) == 0 {
		return false
	}
	for _, c := range v {
		switch {
		case c >= '0' && c <= '9':
		case c == '.', c == '-', c == '+', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}
