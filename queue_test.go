package chunkq

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q")

	q, err := Open(path, 1024)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	assert.True(t, q.IsEmpty())
	assert.Equal(t, int64(1024), q.ChunkSize())
	assert.Equal(t, 1024-12, q.MaxElementSize())

	require.NoError(t, q.Enqueue([]byte("first")))
	require.NoError(t, q.Enqueue([]byte("second")))
	assert.False(t, q.IsEmpty())

	got, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)

	n, err := q.PeekLength()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	buf := make([]byte, n)
	require.NoError(t, q.PeekInto(buf))
	assert.Equal(t, []byte("first"), buf)

	ok, err := q.Dequeue()
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = q.Peek()
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	ok, err = q.Clear()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, q.IsEmpty())
}

func TestOpen_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q")

	_, err := Open(path, 5)
	require.ErrorIs(t, err, ErrInvalidChunkSize)

	q, err := Open(path, 1024)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	_, err = Open(path, 1024)
	require.ErrorIs(t, err, ErrAlreadyOpen)

	err = q.Enqueue(make([]byte, q.MaxElementSize()+1))
	require.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestOpenWithOptions_MetricsAndLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q")

	var logBuf bytes.Buffer
	ll := logrus.New()
	ll.SetOutput(&logBuf)
	ll.SetLevel(logrus.DebugLevel)

	collector := NewMetricsCollector("test")
	q, err := OpenWithOptions(path, &Options{
		ChunkSize:        1024,
		Logger:           NewLogrusLogger(ll),
		MetricsCollector: collector,
	})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	require.NoError(t, q.Enqueue([]byte("abc")))
	_, err = q.Dequeue()
	require.NoError(t, err)

	snap := collector.GetSnapshot()
	assert.Equal(t, uint64(1), snap.EnqueueTotal)
	assert.Equal(t, uint64(3), snap.EnqueueBytes)
	assert.Equal(t, uint64(1), snap.DequeueTotal)

	assert.Contains(t, logBuf.String(), "entry enqueued")
}

func TestOpenWithOptions_NilOptions(t *testing.T) {
	q, err := OpenWithOptions(filepath.Join(t.TempDir(), "q"), nil)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	assert.Equal(t, int64(DefaultChunkSize), q.ChunkSize())
}
