package chunk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/chunkq/internal/format"
	"github.com/vnykmshr/chunkq/internal/mmap"
)

const testChunkSize = 128

func openTestChunk(t *testing.T, forceNew bool) *Chunk {
	t.Helper()
	path := filepath.Join(t.TempDir(), "q.1")
	c, err := Open(path, 1, testChunkSize, forceNew)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestOpen_ForceNew(t *testing.T) {
	c := openTestChunk(t, true)

	assert.Equal(t, uint16(1), c.ID())
	assert.Equal(t, uint32(format.ChunkHeaderSize), c.HeadPtr())
	assert.Equal(t, uint32(format.ChunkHeaderSize), c.TailPtr())
	assert.Equal(t, format.NullRef, c.Next())

	fi, err := os.Stat(c.Path())
	require.NoError(t, err)
	assert.Equal(t, int64(testChunkSize), fi.Size())
}

func TestOpen_ShortFileTreatedAsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.1")
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0x02, 0x03}, 0o644))

	c, err := Open(path, 1, testChunkSize, false)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, uint32(format.ChunkHeaderSize), c.HeadPtr())
	assert.Equal(t, uint32(format.ChunkHeaderSize), c.TailPtr())
	assert.Equal(t, format.NullRef, c.Next())
}

func TestAppend_FramesEntries(t *testing.T) {
	c := openTestChunk(t, true)

	c.Append([]byte{0x61, 0x62, 0x63})
	assert.Equal(t, uint32(format.ChunkHeaderSize+2+3), c.TailPtr())

	c.Append([]byte{0x64})
	assert.Equal(t, uint32(format.ChunkHeaderSize+2+3+2+1), c.TailPtr())

	assert.Equal(t, uint16(3), c.PeekLength())
	buf := make([]byte, 3)
	c.PeekInto(buf)
	assert.Equal(t, []byte{0x61, 0x62, 0x63}, buf)

	// The second entry becomes visible once the head passes the first.
	c.SetHeadPtr(c.HeadPtr() + 2 + 3)
	assert.Equal(t, uint16(1), c.PeekLength())
	buf = make([]byte, 1)
	c.PeekInto(buf)
	assert.Equal(t, []byte{0x64}, buf)
}

func TestAppend_EmptyPayload(t *testing.T) {
	c := openTestChunk(t, true)

	c.Append(nil)
	assert.Equal(t, uint32(format.ChunkHeaderSize+2), c.TailPtr())
	assert.Equal(t, uint16(0), c.PeekLength())
}

func TestHeader_PersistAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.3")

	c, err := Open(path, 3, testChunkSize, true)
	require.NoError(t, err)

	c.Append([]byte("abc"))
	c.Append([]byte("defg"))
	c.SetHeadPtr(c.HeadPtr() + 2 + 3)
	c.SetNext(7)
	c.WriteHeader()
	require.NoError(t, c.Force())

	wantHead := c.HeadPtr()
	wantTail := c.TailPtr()
	require.NoError(t, c.Close())

	// Frame round-trip: header and payload bytes read back unchanged.
	c2, err := Open(path, 3, testChunkSize, false)
	require.NoError(t, err)
	defer func() { _ = c2.Close() }()

	assert.Equal(t, wantHead, c2.HeadPtr())
	assert.Equal(t, wantTail, c2.TailPtr())
	assert.Equal(t, uint16(7), c2.Next())

	buf := make([]byte, c2.PeekLength())
	c2.PeekInto(buf)
	assert.Equal(t, []byte("defg"), buf)
}

func TestReset(t *testing.T) {
	c := openTestChunk(t, true)

	c.Append([]byte("abc"))
	c.SetNext(2)
	c.WriteHeader()

	c.Reset()
	assert.Equal(t, uint32(format.ChunkHeaderSize), c.HeadPtr())
	assert.Equal(t, uint32(format.ChunkHeaderSize), c.TailPtr())
	assert.Equal(t, format.NullRef, c.Next())
}

func TestReopen_KeepsCachedHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.1")

	c, err := Open(path, 1, testChunkSize, true)
	require.NoError(t, err)

	c.Append([]byte("abc"))
	c.WriteTailPtr()
	require.NoError(t, c.Force())
	require.NoError(t, c.Close())
	assert.False(t, c.IsOpen())

	require.NoError(t, c.Reopen())
	defer func() { _ = c.Close() }()
	assert.True(t, c.IsOpen())
	assert.Equal(t, uint16(3), c.PeekLength())
}

func TestOpen_Locked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.1")

	c, err := Open(path, 1, testChunkSize, true)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, err = Open(path, 1, testChunkSize, false)
	require.ErrorIs(t, err, mmap.ErrLocked)
}

func TestDrop_RemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.1")

	c, err := Open(path, 1, testChunkSize, true)
	require.NoError(t, err)
	c.Append([]byte("abc"))

	require.NoError(t, c.Drop())

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDrop_ClosedChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.1")

	c, err := Open(path, 1, testChunkSize, true)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	require.NoError(t, c.Drop())

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestChunkPath(t *testing.T) {
	tests := []struct {
		name string
		head string
		id   uint16
		want string
	}{
		{"first", "/var/spool/outbound", 1, "/var/spool/outbound.1"},
		{"larger id", "/var/spool/outbound", 4242, "/var/spool/outbound.4242"},
		{"relative head", "queue", 2, "queue.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkPath(tt.head, tt.id))
		})
	}
}
