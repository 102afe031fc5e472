package chunkq

import (
	"errors"

	"github.com/vnykmshr/chunkq/internal/queue"
)

// Errors returned by chunkq operations.
var (
	// ErrAlreadyOpen indicates another open queue holds the head file's lock.
	ErrAlreadyOpen = queue.ErrAlreadyOpen

	// ErrInvalidChunkSize indicates an unusable chunk size.
	ErrInvalidChunkSize = queue.ErrInvalidChunkSize

	// ErrPayloadTooLarge indicates the payload exceeds MaxElementSize.
	ErrPayloadTooLarge = queue.ErrPayloadTooLarge

	// ErrCorruptChain indicates the on-disk chunk chain is unusable.
	ErrCorruptChain = queue.ErrCorruptChain

	// ErrEmpty indicates there is no head entry to inspect.
	ErrEmpty = queue.ErrEmpty

	// ErrClosed indicates the queue has been closed.
	ErrClosed = queue.ErrClosed

	// ErrCancelled indicates a blocking wait was cancelled by its context.
	ErrCancelled = errors.New("chunkq: wait cancelled")

	// ErrPredicateFailed indicates a DequeueIf predicate returned an
	// error; the element was retained.
	ErrPredicateFailed = errors.New("chunkq: dequeue predicate failed")
)
