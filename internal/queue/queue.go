// Package queue implements the durable FIFO byte-queue engine.
//
// A queue is a two-byte head file plus a chain of fixed-size, memory-mapped
// chunk files linked by 16-bit references. Entries are appended to the tail
// chunk and consumed from the front chunk; the head file records where the
// chain starts. Every mutation is flushed at a defined point, so a crash
// between operations never loses acknowledged entries or breaks FIFO order.
//
// The engine is single-threaded: callers serialize all operations on one
// Queue. The blocking wrapper in the root package adds a guard for
// multi-goroutine use.
package queue

import (
	"errors"
	"fmt"

	"github.com/vnykmshr/chunkq/internal/chunk"
	"github.com/vnykmshr/chunkq/internal/format"
	"github.com/vnykmshr/chunkq/internal/logging"
	"github.com/vnykmshr/chunkq/internal/mmap"
)

const lenUnknown = -1

// Queue is a durable, disk-backed FIFO byte queue.
type Queue struct {
	opts *Options

	head   *chunk.Head
	chunks []*chunk.Chunk

	// cachedHeadLen memoizes the head entry's length between a peek and
	// the dequeue that consumes it; lenUnknown when invalid.
	cachedHeadLen int

	closed bool
}

// Open opens or creates the queue whose head file lives at path, locking
// it exclusively and walking the chunk chain from the head's first
// reference. Fails with ErrAlreadyOpen if any other opener holds the head
// lock, ErrInvalidChunkSize for an unusable chunk size, and ErrCorruptChain
// if the on-disk chain contains a cycle or an unopenable chunk.
func Open(path string, opts *Options) (*Queue, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	opts = opts.withDefaults()

	if opts.ChunkSize <= format.ChunkHeaderSize+format.EntryHeaderSize || opts.ChunkSize > format.MaxChunkSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidChunkSize, opts.ChunkSize)
	}

	head, err := chunk.OpenHead(path)
	if err != nil {
		if errors.Is(err, mmap.ErrLocked) {
			return nil, ErrAlreadyOpen
		}
		return nil, fmt.Errorf("open head: %w", err)
	}

	chunks, err := loadChain(head, opts.ChunkSize)
	if err != nil {
		_ = head.Close()
		return nil, err
	}

	q := &Queue{
		opts:          opts,
		head:          head,
		chunks:        chunks,
		cachedHeadLen: lenUnknown,
	}

	opts.MetricsCollector.UpdateQueueState(q.CountChunks())
	opts.Logger.Debug("queue opened",
		logging.F("path", head.Path()),
		logging.F("chunks", len(chunks)),
	)

	return q, nil
}

// loadChain opens and locks every chunk reachable from the head's first
// reference, in chain order.
func loadChain(head *chunk.Head, chunkSize int64) ([]*chunk.Chunk, error) {
	var chunks []*chunk.Chunk
	closeAll := func() {
		for _, c := range chunks {
			_ = c.Close()
		}
	}

	visited := make(map[uint16]bool)
	next := head.First()
	for next != format.NullRef {
		if visited[next] {
			closeAll()
			return nil, fmt.Errorf("%w: chunk %d referenced twice", ErrCorruptChain, next)
		}
		visited[next] = true

		c, err := chunk.Open(chunk.ChunkPath(head.Path(), next), next, chunkSize, false)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("%w: chunk %d: %v", ErrCorruptChain, next, err)
		}
		chunks = append(chunks, c)
		next = c.Next()
	}

	return chunks, nil
}

// IsEmpty reports whether the queue holds no entries. Performs no I/O.
func (q *Queue) IsEmpty() bool {
	if len(q.chunks) == 0 {
		return true
	}
	if len(q.chunks) == 1 {
		c := q.chunks[0]
		return c.HeadPtr() >= c.TailPtr()
	}
	return false
}

// CountChunks returns the number of chunks holding live data: 0 for an
// empty queue even when a reset chunk file is still kept around.
func (q *Queue) CountChunks() int {
	if q.IsEmpty() {
		return 0
	}
	return len(q.chunks)
}

// Path returns the absolute path of the queue's head file.
func (q *Queue) Path() string {
	return q.head.Path()
}

// ChunkSize returns the configured chunk file size in bytes.
func (q *Queue) ChunkSize() int64 {
	return q.opts.ChunkSize
}

// MaxElementSize returns the largest payload a single entry can carry:
// the room left in a chunk after the chunk and entry headers, capped at
// what the 16-bit length prefix can frame.
func (q *Queue) MaxElementSize() int {
	n := int(q.opts.ChunkSize) - format.ChunkHeaderSize - format.EntryHeaderSize
	if n > format.MaxEntrySize {
		n = format.MaxEntrySize
	}
	return n
}

// Close flushes and closes every chunk and the head. If the queue is empty
// it also removes all queue files from disk. Close is idempotent; errors
// releasing individual chunks are logged and swallowed, a failure on the
// head file is returned.
func (q *Queue) Close() error {
	if q.closed {
		return nil
	}
	q.closed = true

	empty := q.IsEmpty()

	for _, c := range q.chunks {
		if err := c.Close(); err != nil {
			q.opts.Logger.Warn("failed to close chunk",
				logging.F("chunk", c.ID()),
				logging.F("error", err.Error()),
			)
		}
	}

	var firstErr error
	if err := q.head.Close(); err != nil {
		firstErr = fmt.Errorf("close head: %w", err)
	}

	if empty {
		for _, c := range q.chunks {
			if err := c.Drop(); err != nil {
				q.opts.Logger.Warn("failed to remove chunk file",
					logging.F("chunk", c.ID()),
					logging.F("error", err.Error()),
				)
			}
		}
		if err := q.head.Remove(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	q.opts.Logger.Debug("queue closed",
		logging.F("path", q.head.Path()),
		logging.F("empty", empty),
	)

	return firstErr
}

// ensureFrontOpen reopens the front chunk if it was closed when it stopped
// being the tail during an earlier rotation.
func (q *Queue) ensureFrontOpen() error {
	front := q.chunks[0]
	if front.IsOpen() {
		return nil
	}
	if err := front.Reopen(); err != nil {
		return fmt.Errorf("reopen chunk %d: %w", front.ID(), err)
	}
	return nil
}
