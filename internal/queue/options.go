package queue

import (
	"time"

	"github.com/vnykmshr/chunkq/internal/logging"
)

// DefaultChunkSize is the chunk file size used when none is configured.
const DefaultChunkSize = 1 << 20 // 1 MB

// Options configures queue behavior.
type Options struct {
	// ChunkSize is the exact size in bytes of every chunk file. It bounds
	// the max element size: ChunkSize - ChunkHeaderSize - EntryHeaderSize,
	// capped at format.MaxEntrySize.
	// Default: DefaultChunkSize
	ChunkSize int64

	// Logger for structured logging (nil = no logging)
	Logger logging.Logger

	// MetricsCollector for collecting queue metrics (nil = no metrics)
	MetricsCollector MetricsCollector
}

// MetricsCollector defines the interface for recording queue metrics.
type MetricsCollector interface {
	RecordEnqueue(payloadSize int, duration time.Duration)
	RecordDequeue(payloadSize int, duration time.Duration)
	RecordEnqueueError()
	RecordDequeueError()
	RecordRotation()
	UpdateQueueState(chunks int)
}

// DefaultOptions returns sensible defaults for queue configuration.
func DefaultOptions() *Options {
	return &Options{
		ChunkSize:        DefaultChunkSize,
		Logger:           logging.NopLogger{},
		MetricsCollector: nopMetrics{},
	}
}

// withDefaults fills unset fields so the engine never nil-checks them.
func (o *Options) withDefaults() *Options {
	out := *o
	if out.ChunkSize == 0 {
		out.ChunkSize = DefaultChunkSize
	}
	if out.Logger == nil {
		out.Logger = logging.NopLogger{}
	}
	if out.MetricsCollector == nil {
		out.MetricsCollector = nopMetrics{}
	}
	return &out
}

type nopMetrics struct{}

func (nopMetrics) RecordEnqueue(int, time.Duration) {}
func (nopMetrics) RecordDequeue(int, time.Duration) {}
func (nopMetrics) RecordEnqueueError()              {}
func (nopMetrics) RecordDequeueError()              {}
func (nopMetrics) RecordRotation()                  {}
func (nopMetrics) UpdateQueueState(int)             {}
