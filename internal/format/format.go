// Package format defines the on-disk layout of chunkq files.
//
// A queue is a two-byte head file plus a chain of fixed-size chunk files:
//
//	head file := first(2)
//	chunk     := headPtr(4) tailPtr(4) nextRef(2) entry*
//	entry     := length(2) data
//
// headPtr and tailPtr are byte offsets into the chunk file. nextRef names
// the next chunk in the chain, NullRef terminating it. All multi-byte
// fields are stored big-endian.
package format

import "encoding/binary"

const (
	// RefSize is the width of a chunk reference in bytes.
	RefSize = 2

	// PtrSize is the width of a chunk-internal byte offset in bytes.
	PtrSize = 4

	// EntryHeaderSize is the width of the length prefix preceding each entry.
	EntryHeaderSize = RefSize

	// QueueHeadSize is the exact size of the head file.
	QueueHeadSize = RefSize

	// ChunkHeaderSize is the size of the fixed header at the start of every
	// chunk file: headPtr, tailPtr, nextRef.
	ChunkHeaderSize = PtrSize + PtrSize + RefSize

	// Field offsets within the chunk header.
	HeadPtrOffset = 0
	TailPtrOffset = HeadPtrOffset + PtrSize
	NextRefOffset = TailPtrOffset + PtrSize
)

const (
	// NullRef is the reserved chunk reference meaning "none".
	NullRef uint16 = 0

	// MaxID is the largest value a chunk reference can hold.
	MaxID = 0xFFFF

	// MaxChunkSize is the largest representable chunk size; pointers are
	// 32-bit offsets.
	MaxChunkSize = int64(0xFFFFFFFF)

	// MaxEntrySize is the largest payload length the 16-bit length prefix
	// can frame.
	MaxEntrySize = 0xFFFF
)

// GetUint16 reads a big-endian 16-bit field at off.
func GetUint16(b []byte, off int) uint16 {
	return binary.BigEndian.Uint16(b[off:])
}

// PutUint16 stores the low 16 bits of v big-endian at off.
func PutUint16(b []byte, off int, v uint16) {
	binary.BigEndian.PutUint16(b[off:], v)
}

// GetUint32 reads a big-endian 32-bit field at off.
func GetUint32(b []byte, off int) uint32 {
	return binary.BigEndian.Uint32(b[off:])
}

// PutUint32 stores the low 32 bits of v big-endian at off.
func PutUint32(b []byte, off int, v uint32) {
	binary.BigEndian.PutUint32(b[off:], v)
}
