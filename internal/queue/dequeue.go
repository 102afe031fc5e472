package queue

import (
	"fmt"
	"time"

	"github.com/vnykmshr/chunkq/internal/format"
	"github.com/vnykmshr/chunkq/internal/logging"
)

// PeekLength returns the length of the head entry without copying its
// payload. Returns ErrEmpty when the queue holds no entries.
func (q *Queue) PeekLength() (int, error) {
	if q.closed {
		return 0, ErrClosed
	}
	if q.IsEmpty() {
		return 0, ErrEmpty
	}
	return q.headLength()
}

// Peek returns a copy of the head entry's payload, or nil when the queue
// is empty. The queue is not modified.
func (q *Queue) Peek() ([]byte, error) {
	if q.closed {
		return nil, ErrClosed
	}
	if q.IsEmpty() {
		return nil, nil
	}

	n, err := q.headLength()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	q.chunks[0].PeekInto(buf)
	return buf, nil
}

// PeekInto copies len(buf) payload bytes of the head entry into buf,
// avoiding the allocation Peek makes. The caller sizes buf from
// PeekLength. Returns ErrEmpty when the queue holds no entries.
func (q *Queue) PeekInto(buf []byte) error {
	if q.closed {
		return ErrClosed
	}
	if q.IsEmpty() {
		return ErrEmpty
	}
	if err := q.ensureFrontOpen(); err != nil {
		return err
	}
	q.chunks[0].PeekInto(buf)
	return nil
}

// headLength returns the head entry's length, reading it from the front
// chunk on a cache miss. The front chunk is open on return.
func (q *Queue) headLength() (int, error) {
	if err := q.ensureFrontOpen(); err != nil {
		return 0, err
	}
	if q.cachedHeadLen == lenUnknown {
		q.cachedHeadLen = int(q.chunks[0].PeekLength())
	}
	return q.cachedHeadLen, nil
}

// Dequeue removes the head entry. Returns false without error when the
// queue is empty. On return the consumed state is durable: the advanced
// head pointer (or the rotated chain) is flushed before Dequeue reports
// success.
func (q *Queue) Dequeue() (bool, error) {
	start := time.Now()

	if q.closed {
		return false, ErrClosed
	}
	if q.IsEmpty() {
		return false, nil
	}

	n, err := q.headLength()
	if err != nil {
		q.opts.MetricsCollector.RecordDequeueError()
		return false, err
	}

	c := q.chunks[0]
	prevHead := c.HeadPtr()
	q.cachedHeadLen = lenUnknown
	c.SetHeadPtr(prevHead + uint32(format.EntryHeaderSize+n))

	switch {
	case c.HeadPtr() < c.TailPtr():
		// Still entries behind the head: persist just the new pointer.
		c.WriteHeadPtr()
		if err := c.Force(); err != nil {
			c.SetHeadPtr(prevHead)
			c.WriteHeadPtr()
			q.cachedHeadLen = n
			q.opts.MetricsCollector.RecordDequeueError()
			return false, fmt.Errorf("persist head pointer: %w", err)
		}

	case len(q.chunks) == 1:
		// Sole chunk drained: reset it in place and keep it open.
		c.Reset()
		if err := c.Force(); err != nil {
			q.opts.MetricsCollector.RecordDequeueError()
			return false, fmt.Errorf("reset drained chunk: %w", err)
		}

	default:
		// Front chunk drained with more behind it: advance the head file
		// to the successor, then unlink. The new first must be durable
		// before the old file goes away, or a crash between the two would
		// leave the chain starting at a missing file.
		if err := q.head.WriteFirst(c.Next()); err != nil {
			c.SetHeadPtr(prevHead)
			q.cachedHeadLen = n
			q.opts.MetricsCollector.RecordDequeueError()
			return false, fmt.Errorf("persist first reference: %w", err)
		}
		q.chunks = q.chunks[1:]
		if err := q.ensureFrontOpen(); err != nil {
			q.opts.MetricsCollector.RecordDequeueError()
			return false, err
		}
		if err := c.Drop(); err != nil {
			q.opts.Logger.Warn("failed to drop drained chunk",
				logging.F("chunk", c.ID()),
				logging.F("error", err.Error()),
			)
		}
		q.opts.MetricsCollector.RecordRotation()
		q.opts.Logger.Debug("front chunk dropped",
			logging.F("chunk", c.ID()),
			logging.F("first", q.head.First()),
		)
	}

	q.opts.MetricsCollector.RecordDequeue(n, time.Since(start))
	q.opts.MetricsCollector.UpdateQueueState(q.CountChunks())

	return true, nil
}

// Clear discards every entry. Returns false without error when the queue
// is already empty. The front chunk is reset in place; all others are
// unlinked.
func (q *Queue) Clear() (bool, error) {
	if q.closed {
		return false, ErrClosed
	}
	if q.IsEmpty() {
		return false, nil
	}

	if err := q.head.WriteFirst(format.NullRef); err != nil {
		return false, fmt.Errorf("persist first reference: %w", err)
	}

	if err := q.ensureFrontOpen(); err != nil {
		return false, err
	}
	front := q.chunks[0]
	front.Reset()
	if err := front.Force(); err != nil {
		return false, fmt.Errorf("reset front chunk: %w", err)
	}

	for _, c := range q.chunks[1:] {
		if err := c.Drop(); err != nil {
			q.opts.Logger.Warn("failed to drop chunk",
				logging.F("chunk", c.ID()),
				logging.F("error", err.Error()),
			)
		}
	}
	q.chunks = q.chunks[:1]
	q.cachedHeadLen = lenUnknown

	q.opts.MetricsCollector.UpdateQueueState(q.CountChunks())
	q.opts.Logger.Debug("queue cleared", logging.F("path", q.head.Path()))

	return true, nil
}
