// Package source opens the input file as a read-only, randomly addressable
// byte source which is safe for concurrent reads.
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/exp/mmap"
)

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotRegular       = errors.New("not a regular file")
)

// Source is implemented by memory mapped and plain files.
type Source interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

type mapped struct {
	*mmap.ReaderAt
}

func (m mapped) Size() int64 { return int64(m.Len()) }

type file struct {
	*os.File
	size int64
}

func (f file) Size() int64 { return f.size }

// Open checks that path is a readable regular file and opens it, memory
// mapped if useMmap is set. Empty files are never mapped.
func Open(path string, useMmap bool) (Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, classify(path, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	if useMmap && fi.Size() > 0 {
		r, err := mmap.Open(path)
		if err != nil {
			return nil, classify(path, err)
		}
		return mapped{r}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, classify(path, err)
	}
	return file{File: f, size: fi.Size()}, nil
}

// classify wraps pre-flight errors, so both the sentinels here and the fs
// errors match with errors.Is.
func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("open %s: %w", path, err)
	}
}
