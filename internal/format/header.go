package format

import "fmt"

// ChunkHeader is the decoded fixed header of a chunk file.
//
// Binary format (big-endian):
//
//	[HeadPtr:4][TailPtr:4][Next:2]
type ChunkHeader struct {
	// HeadPtr is the offset of the next byte to read.
	HeadPtr uint32

	// TailPtr is the offset of the next byte to write.
	TailPtr uint32

	// Next references the following chunk in the chain, NullRef if none.
	Next uint16
}

// NewChunkHeader returns the header of a freshly initialized chunk: both
// pointers at the end of the header, no successor.
func NewChunkHeader() ChunkHeader {
	return ChunkHeader{
		HeadPtr: ChunkHeaderSize,
		TailPtr: ChunkHeaderSize,
		Next:    NullRef,
	}
}

// Marshal encodes the header into the first ChunkHeaderSize bytes of b.
func (h ChunkHeader) Marshal(b []byte) {
	PutUint32(b, HeadPtrOffset, h.HeadPtr)
	PutUint32(b, TailPtrOffset, h.TailPtr)
	PutUint16(b, NextRefOffset, h.Next)
}

// UnmarshalChunkHeader decodes a chunk header from the start of b.
func UnmarshalChunkHeader(b []byte) (ChunkHeader, error) {
	if len(b) < ChunkHeaderSize {
		return ChunkHeader{}, fmt.Errorf("chunk header truncated: %d bytes, need %d", len(b), ChunkHeaderSize)
	}
	return ChunkHeader{
		HeadPtr: GetUint32(b, HeadPtrOffset),
		TailPtr: GetUint32(b, TailPtrOffset),
		Next:    GetUint16(b, NextRefOffset),
	}, nil
}
