// Package mmap provides the exclusively locked, memory-mapped file regions
// backing chunkq's on-disk state.
//
// A Region couples three things that always travel together in this
// code base: an open file, an exclusive whole-file lock on it, and a
// read-write mapping of its first n bytes. Opening a region acquires all
// three; closing releases them in reverse order. Flush is the durability
// barrier that makes preceding writes to the mapping survive a crash.
package mmap

import (
	"errors"
	"fmt"
	"os"
)

// ErrLocked indicates the file's exclusive lock is held elsewhere.
var ErrLocked = errors.New("chunkq: file locked by another opener")

// Region is an exclusively locked file mapped read-write into memory.
type Region struct {
	path      string
	f         *os.File
	data      []byte
	priorSize int64
}

// Open opens (creating if missing) the file at path, acquires an exclusive
// whole-file lock, sets the file length to exactly size, and maps the file
// read-write. Returns ErrLocked if any other opener holds the lock.
func Open(path string, size int64) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644) //nolint:gosec // G304: path is caller-provided by design
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		if errors.Is(err, ErrLocked) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = unlockFile(f)
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	prior := fi.Size()

	if prior != size {
		if err := f.Truncate(size); err != nil {
			_ = unlockFile(f)
			_ = f.Close()
			return nil, fmt.Errorf("truncate %s to %d: %w", path, size, err)
		}
	}

	data, err := mapFile(f, size)
	if err != nil {
		_ = unlockFile(f)
		_ = f.Close()
		return nil, err
	}

	return &Region{path: path, f: f, data: data, priorSize: prior}, nil
}

// Bytes returns the mapped region. Valid until Close.
func (r *Region) Bytes() []byte {
	return r.data
}

// Path returns the file path backing the region.
func (r *Region) Path() string {
	return r.path
}

// PriorSize returns the file's size as found on disk before Open resized it.
func (r *Region) PriorSize() int64 {
	return r.priorSize
}

// Flush synchronously writes all modified pages of the mapping back to the
// file. On return, preceding stores to Bytes() are durable.
func (r *Region) Flush() error {
	if r.f == nil {
		return nil
	}
	if err := flushRegion(r.f, r.data); err != nil {
		return fmt.Errorf("flush %s: %w", r.path, err)
	}
	return nil
}

// Close flushes the mapping, unmaps it, releases the lock, and closes the
// file. Safe to call more than once.
func (r *Region) Close() error {
	if r.f == nil {
		return nil
	}

	var firstErr error
	if err := flushRegion(r.f, r.data); err != nil {
		firstErr = fmt.Errorf("flush %s: %w", r.path, err)
	}
	if err := unmapFile(r.data); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("unmap %s: %w", r.path, err)
	}
	if err := unlockFile(r.f); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("unlock %s: %w", r.path, err)
	}
	if err := r.f.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close %s: %w", r.path, err)
	}

	r.data = nil
	r.f = nil
	return firstErr
}
