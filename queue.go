package chunkq

import (
	"github.com/vnykmshr/chunkq/internal/queue"
)

// Version is the current version of chunkq.
const Version = "1.0.0"

// Queue is a durable, disk-backed FIFO byte queue.
//
// Queue is not safe for concurrent use: callers serialize all operations,
// or wrap it in a PollableQueue.
type Queue struct {
	q *queue.Queue
}

// Open opens or creates the queue whose head file lives at path, with
// chunk files of exactly chunkSize bytes. The head file is exclusively
// locked until Close; a concurrent opener fails with ErrAlreadyOpen. Every
// chunk the queue holds open is locked too; a full chunk is closed, and
// its lock released, when it stops being the tail, and is reopened when it
// reaches the front.
func Open(path string, chunkSize int64) (*Queue, error) {
	return OpenWithOptions(path, &Options{ChunkSize: chunkSize})
}

// OpenWithOptions is Open with logging and metrics configured.
func OpenWithOptions(path string, opts *Options) (*Queue, error) {
	if opts == nil {
		opts = &Options{}
	}

	q, err := queue.Open(path, &queue.Options{
		ChunkSize:        opts.ChunkSize,
		Logger:           convertLogger(opts.Logger),
		MetricsCollector: opts.MetricsCollector,
	})
	if err != nil {
		return nil, err
	}

	return &Queue{q: q}, nil
}

// Enqueue appends a payload to the tail of the queue. The entry is durable
// when Enqueue returns. Payloads larger than MaxElementSize are refused
// with ErrPayloadTooLarge.
func (q *Queue) Enqueue(payload []byte) error {
	return q.q.Enqueue(payload)
}

// Peek returns a copy of the oldest entry without removing it, or nil when
// the queue is empty.
func (q *Queue) Peek() ([]byte, error) {
	return q.q.Peek()
}

// PeekLength returns the length of the oldest entry without copying its
// payload. Returns ErrEmpty when the queue holds no entries.
func (q *Queue) PeekLength() (int, error) {
	return q.q.PeekLength()
}

// PeekInto copies len(buf) payload bytes of the oldest entry into buf,
// avoiding the allocation Peek makes; size buf with PeekLength. Returns
// ErrEmpty when the queue holds no entries.
func (q *Queue) PeekInto(buf []byte) error {
	return q.q.PeekInto(buf)
}

// Dequeue removes the oldest entry. Returns false without error when the
// queue is empty.
func (q *Queue) Dequeue() (bool, error) {
	return q.q.Dequeue()
}

// Clear discards every entry. Returns false without error when the queue
// is already empty.
func (q *Queue) Clear() (bool, error) {
	return q.q.Clear()
}

// IsEmpty reports whether the queue holds no entries. Performs no I/O.
func (q *Queue) IsEmpty() bool {
	return q.q.IsEmpty()
}

// CountChunks returns the number of chunks holding live data.
func (q *Queue) CountChunks() int {
	return q.q.CountChunks()
}

// Path returns the absolute path of the queue's head file.
func (q *Queue) Path() string {
	return q.q.Path()
}

// ChunkSize returns the configured chunk file size in bytes.
func (q *Queue) ChunkSize() int64 {
	return q.q.ChunkSize()
}

// MaxElementSize returns the largest payload a single entry can carry:
// ChunkSize minus the chunk and entry headers, capped at 65535 bytes by
// the 16-bit length prefix.
func (q *Queue) MaxElementSize() int {
	return q.q.MaxElementSize()
}

// Close flushes and closes the queue. If it is empty, every queue file is
// removed from disk. Close is idempotent.
func (q *Queue) Close() error {
	return q.q.Close()
}
