package chunk

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vnykmshr/chunkq/internal/format"
	"github.com/vnykmshr/chunkq/internal/mmap"
)

// Head owns the queue's head file: two bytes recording the reference of
// the first chunk in the chain, NullRef when the queue has none.
type Head struct {
	path   string
	region *mmap.Region
	first  uint16
}

// OpenHead resolves path to an absolute path, opens and exclusively locks
// the head file, truncates it to exactly QueueHeadSize bytes, maps it and
// reads the first reference. A freshly created file reads as NullRef.
// Returns mmap.ErrLocked unwrapped when another opener holds the lock.
func OpenHead(path string) (*Head, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	region, err := mmap.Open(abs, format.QueueHeadSize)
	if err != nil {
		return nil, err
	}

	return &Head{
		path:   abs,
		region: region,
		first:  format.GetUint16(region.Bytes(), 0),
	}, nil
}

// Path returns the absolute path of the head file.
func (h *Head) Path() string { return h.path }

// First returns the cached first-chunk reference.
func (h *Head) First() uint16 { return h.first }

// WriteFirst updates the first-chunk reference and flushes it. The flush
// ordering matters: rotation persists the new first before the drained
// chunk file is unlinked.
func (h *Head) WriteFirst(ref uint16) error {
	h.first = ref
	format.PutUint16(h.region.Bytes(), 0, ref)
	return h.region.Flush()
}

// Close releases the lock and closes the head file. No-op if closed.
func (h *Head) Close() error {
	if h.region == nil {
		return nil
	}
	err := h.region.Close()
	h.region = nil
	return err
}

// Remove closes the head if needed and unlinks its file.
func (h *Head) Remove() error {
	if err := h.Close(); err != nil {
		return err
	}
	if err := os.Remove(h.path); err != nil {
		return fmt.Errorf("remove head: %w", err)
	}
	return nil
}
