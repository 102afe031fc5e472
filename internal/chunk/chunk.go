// Package chunk owns the individual files of a queue: the fixed-size chunk
// files holding framed entries, and the two-byte head file recording the
// first chunk of the chain.
//
// A chunk file is exactly chunk-size bytes:
//
//	[headPtr:4][tailPtr:4][next:2][entry*]
//	entry := [length:2][data]
//
// Bytes beyond tailPtr are allocated but unused. The header fields are
// cached in memory; Write* methods copy them into the mapping and Force is
// the durability barrier. The engine above decides when each is called.
package chunk

import (
	"fmt"
	"os"

	"github.com/vnykmshr/chunkq/internal/format"
	"github.com/vnykmshr/chunkq/internal/mmap"
)

// Chunk is one open chunk file: its mapping, its lock, and the cached
// header triple.
type Chunk struct {
	path string
	id   uint16
	size int64

	region *mmap.Region

	headPtr uint32
	tailPtr uint32
	next    uint16
}

// Open opens the chunk file at path, creating it if missing, acquires its
// exclusive lock and maps its first size bytes.
//
// With forceNew the chunk is initialized fresh: both pointers at
// ChunkHeaderSize, no successor, header flushed. Otherwise the header is
// read from the file; a file shorter than the header (a referenced chunk
// file that is missing or cut short) is treated as fresh. Returns mmap.ErrLocked
// unwrapped when the lock is held elsewhere.
func Open(path string, id uint16, size int64, forceNew bool) (*Chunk, error) {
	region, err := mmap.Open(path, size)
	if err != nil {
		return nil, err
	}

	c := &Chunk{path: path, id: id, size: size, region: region}

	if forceNew || region.PriorSize() < format.ChunkHeaderSize {
		c.headPtr = format.ChunkHeaderSize
		c.tailPtr = format.ChunkHeaderSize
		c.next = format.NullRef
		c.WriteHeader()
		if err := region.Flush(); err != nil {
			_ = region.Close()
			return nil, err
		}
	} else {
		h, err := format.UnmarshalChunkHeader(region.Bytes())
		if err != nil {
			_ = region.Close()
			return nil, fmt.Errorf("chunk %d: %w", id, err)
		}
		c.headPtr = h.HeadPtr
		c.tailPtr = h.TailPtr
		c.next = h.Next
	}

	return c, nil
}

// Reopen re-acquires the lock and mapping after a Close. The cached header
// is kept: it was persisted before the chunk was closed. No-op if open.
func (c *Chunk) Reopen() error {
	if c.region != nil {
		return nil
	}
	region, err := mmap.Open(c.path, c.size)
	if err != nil {
		return err
	}
	c.region = region
	return nil
}

// ID returns the chunk's reference id.
func (c *Chunk) ID() uint16 { return c.id }

// Path returns the chunk's file path.
func (c *Chunk) Path() string { return c.path }

// Next returns the cached successor reference.
func (c *Chunk) Next() uint16 { return c.next }

// SetNext updates the cached successor reference. WriteNextRef persists it.
func (c *Chunk) SetNext(ref uint16) { c.next = ref }

// HeadPtr returns the cached read offset.
func (c *Chunk) HeadPtr() uint32 { return c.headPtr }

// TailPtr returns the cached write offset.
func (c *Chunk) TailPtr() uint32 { return c.tailPtr }

// IsOpen reports whether the chunk currently holds its mapping and lock.
func (c *Chunk) IsOpen() bool { return c.region != nil }

// PeekLength returns the length prefix of the entry at the read offset.
func (c *Chunk) PeekLength() uint16 {
	return format.GetUint16(c.region.Bytes(), int(c.headPtr))
}

// PeekInto copies len(buf) payload bytes of the entry at the read offset
// into buf. The caller sizes buf from PeekLength.
func (c *Chunk) PeekInto(buf []byte) {
	start := int(c.headPtr) + format.EntryHeaderSize
	copy(buf, c.region.Bytes()[start:start+len(buf)])
}

// Append frames payload at the write offset and advances the cached
// tailPtr past it. The caller has already checked that the entry fits.
// WriteTailPtr (or WriteHeader) persists the new offset.
func (c *Chunk) Append(payload []byte) {
	b := c.region.Bytes()
	format.PutUint16(b, int(c.tailPtr), uint16(len(payload)))
	copy(b[int(c.tailPtr)+format.EntryHeaderSize:], payload)
	c.tailPtr += uint32(format.EntryHeaderSize + len(payload))
}

// SetHeadPtr updates the cached read offset. WriteHeadPtr persists it.
func (c *Chunk) SetHeadPtr(ptr uint32) {
	c.headPtr = ptr
}

// SetTailPtr updates the cached write offset. WriteTailPtr persists it.
func (c *Chunk) SetTailPtr(ptr uint32) {
	c.tailPtr = ptr
}

// Reset returns the chunk to its fresh state and writes the header into
// the mapping. The caller forces.
func (c *Chunk) Reset() {
	c.headPtr = format.ChunkHeaderSize
	c.tailPtr = format.ChunkHeaderSize
	c.next = format.NullRef
	c.WriteHeader()
}

// WriteHeadPtr copies the cached headPtr into the mapping.
func (c *Chunk) WriteHeadPtr() {
	format.PutUint32(c.region.Bytes(), format.HeadPtrOffset, c.headPtr)
}

// WriteTailPtr copies the cached tailPtr into the mapping.
func (c *Chunk) WriteTailPtr() {
	format.PutUint32(c.region.Bytes(), format.TailPtrOffset, c.tailPtr)
}

// WriteNextRef copies the cached next reference into the mapping.
func (c *Chunk) WriteNextRef() {
	format.PutUint16(c.region.Bytes(), format.NextRefOffset, c.next)
}

// WriteHeader copies the whole cached header into the mapping.
func (c *Chunk) WriteHeader() {
	c.WriteHeadPtr()
	c.WriteTailPtr()
	c.WriteNextRef()
}

// Force flushes the mapping; preceding writes are durable on return.
func (c *Chunk) Force() error {
	return c.region.Flush()
}

// Close flushes and unmaps the chunk, releasing its lock. No-op if closed.
func (c *Chunk) Close() error {
	if c.region == nil {
		return nil
	}
	err := c.region.Close()
	c.region = nil
	return err
}

// Drop closes the chunk if needed and unlinks its file. The handle is
// closed before the unlink, so the removal works on platforms that refuse
// to delete a file with open handles.
func (c *Chunk) Drop() error {
	if err := c.Close(); err != nil {
		return err
	}
	if err := os.Remove(c.path); err != nil {
		return fmt.Errorf("remove chunk %d: %w", c.id, err)
	}
	return nil
}
