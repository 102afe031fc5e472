package queue

import (
	"fmt"
	"time"

	"github.com/vnykmshr/chunkq/internal/chunk"
	"github.com/vnykmshr/chunkq/internal/format"
	"github.com/vnykmshr/chunkq/internal/logging"
)

// Enqueue appends a payload to the tail of the queue. A payload larger
// than MaxElementSize is refused with ErrPayloadTooLarge and leaves the
// queue unchanged. On return the entry is durable: payload and tail
// pointer are flushed before Enqueue reports success.
func (q *Queue) Enqueue(payload []byte) error {
	start := time.Now()

	if q.closed {
		return ErrClosed
	}
	if len(payload) > q.MaxElementSize() {
		q.opts.MetricsCollector.RecordEnqueueError()
		return fmt.Errorf("%w: %d bytes, max %d", ErrPayloadTooLarge, len(payload), q.MaxElementSize())
	}

	newChunk := false
	var c *chunk.Chunk

	if len(q.chunks) == 0 {
		first, err := q.allocateChunk(1)
		if err != nil {
			q.opts.MetricsCollector.RecordEnqueueError()
			return err
		}
		q.chunks = append(q.chunks, first)
		c = first
		newChunk = true
		// The new entry is also the head entry.
		q.cachedHeadLen = len(payload)
	} else {
		c = q.chunks[len(q.chunks)-1]
	}

	if int64(c.TailPtr())+int64(format.EntryHeaderSize+len(payload)) > q.opts.ChunkSize {
		next, err := q.rotateTail(c)
		if err != nil {
			q.opts.MetricsCollector.RecordEnqueueError()
			return err
		}
		c = next
		newChunk = true
	}

	// After Clear the head file reads NullRef while a reset chunk stays in
	// the list; the first entry written afterwards must re-link the chain
	// before it becomes durable, or a crash would strand it.
	if q.head.First() == format.NullRef {
		if err := q.head.WriteFirst(c.ID()); err != nil {
			q.opts.MetricsCollector.RecordEnqueueError()
			return fmt.Errorf("persist first reference: %w", err)
		}
	}

	prevTail := c.TailPtr()
	c.Append(payload)
	if newChunk {
		c.WriteHeader()
	} else {
		c.WriteTailPtr()
	}
	if err := c.Force(); err != nil {
		// Leave the tail unadvanced so the half-written entry stays
		// invisible to peek and dequeue.
		c.SetTailPtr(prevTail)
		c.WriteTailPtr()
		q.opts.MetricsCollector.RecordEnqueueError()
		return fmt.Errorf("persist entry: %w", err)
	}

	q.opts.MetricsCollector.RecordEnqueue(len(payload), time.Since(start))
	q.opts.MetricsCollector.UpdateQueueState(q.CountChunks())
	q.opts.Logger.Debug("entry enqueued",
		logging.F("chunk", c.ID()),
		logging.F("bytes", len(payload)),
	)

	return nil
}

// rotateTail links a fresh chunk behind the full tail chunk old and makes
// it the new tail. The next reference is flushed in old before old is
// closed; old stays in the list and is reopened when it reaches the front.
func (q *Queue) rotateTail(old *chunk.Chunk) (*chunk.Chunk, error) {
	next, err := q.allocateChunk(nextID(old.ID()))
	if err != nil {
		return nil, err
	}

	old.SetNext(next.ID())
	old.WriteNextRef()
	if err := old.Force(); err != nil {
		old.SetNext(format.NullRef)
		old.WriteNextRef()
		_ = next.Drop()
		return nil, fmt.Errorf("persist next reference: %w", err)
	}
	if err := old.Close(); err != nil {
		q.opts.Logger.Warn("failed to close full chunk",
			logging.F("chunk", old.ID()),
			logging.F("error", err.Error()),
		)
	}

	q.chunks = append(q.chunks, next)
	q.opts.Logger.Debug("tail chunk rotated",
		logging.F("full", old.ID()),
		logging.F("new", next.ID()),
	)

	return next, nil
}

// allocateChunk creates and force-initializes the chunk with the given id.
// A leftover file at that path from an earlier run is not referenced by
// any live chain and gets reset.
func (q *Queue) allocateChunk(id uint16) (*chunk.Chunk, error) {
	c, err := chunk.Open(chunk.ChunkPath(q.head.Path(), id), id, q.opts.ChunkSize, true)
	if err != nil {
		return nil, fmt.Errorf("allocate chunk %d: %w", id, err)
	}
	return c, nil
}

// nextID returns the id following c, wrapping inside [1, MaxID-1] so the
// reserved NullRef is never produced.
func nextID(c uint16) uint16 {
	n := uint16((uint32(c) + 1) % uint32(format.MaxID))
	if n == 0 {
		n = 1
	}
	return n
}
