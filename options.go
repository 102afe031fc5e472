package chunkq

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/chunkq/internal/logging"
	"github.com/vnykmshr/chunkq/internal/metrics"
	"github.com/vnykmshr/chunkq/internal/queue"
)

// DefaultChunkSize is the chunk file size used when none is configured.
const DefaultChunkSize = queue.DefaultChunkSize

// Options configures queue behavior.
type Options struct {
	// ChunkSize is the exact size in bytes of every chunk file. It bounds
	// the largest payload a single entry can carry; see MaxElementSize.
	// Default: DefaultChunkSize (1 MB)
	ChunkSize int64

	// Logger for structured logging (nil = no logging)
	Logger Logger

	// MetricsCollector for collecting queue metrics (nil = no metrics)
	MetricsCollector MetricsCollector
}

// Logger is the interface for pluggable logging.
type Logger interface {
	Debug(msg string, fields ...LogField)
	Info(msg string, fields ...LogField)
	Warn(msg string, fields ...LogField)
	Error(msg string, fields ...LogField)
}

// LogField is a structured log field.
type LogField struct {
	Key   string
	Value interface{}
}

// MetricsCollector is the interface for recording queue metrics.
type MetricsCollector interface {
	RecordEnqueue(payloadSize int, duration time.Duration)
	RecordDequeue(payloadSize int, duration time.Duration)
	RecordEnqueueError()
	RecordDequeueError()
	RecordRotation()
	UpdateQueueState(chunks int)
}

// MetricsSnapshot is a point-in-time view of queue metrics.
type MetricsSnapshot = metrics.Snapshot

// NewMetricsCollector creates a metrics collector for the named queue. The
// returned collector satisfies MetricsCollector and prometheus.Collector,
// so it can be handed to OpenWithOptions and registered with a Prometheus
// registry at the same time.
func NewMetricsCollector(queueName string) *metrics.Collector {
	return metrics.NewCollector(queueName)
}

// NewLogrusLogger returns a Logger backed by the given logrus logger.
// Passing nil uses the logrus standard logger.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLogger{inner: logging.NewLogrusLogger(l)}
}

type logrusLogger struct {
	inner *logging.LogrusLogger
}

func (l *logrusLogger) Debug(msg string, fields ...LogField) {
	l.inner.Debug(msg, toInternalFields(fields)...)
}

func (l *logrusLogger) Info(msg string, fields ...LogField) {
	l.inner.Info(msg, toInternalFields(fields)...)
}

func (l *logrusLogger) Warn(msg string, fields ...LogField) {
	l.inner.Warn(msg, toInternalFields(fields)...)
}

func (l *logrusLogger) Error(msg string, fields ...LogField) {
	l.inner.Error(msg, toInternalFields(fields)...)
}

// convertLogger adapts a public Logger to the internal logging interface.
func convertLogger(l Logger) logging.Logger {
	if l == nil {
		return logging.NopLogger{}
	}
	if ll, ok := l.(*logrusLogger); ok {
		return ll.inner
	}
	return &loggerAdapter{l: l}
}

type loggerAdapter struct {
	l Logger
}

func (a *loggerAdapter) Debug(msg string, fields ...logging.Field) {
	a.l.Debug(msg, toPublicFields(fields)...)
}

func (a *loggerAdapter) Info(msg string, fields ...logging.Field) {
	a.l.Info(msg, toPublicFields(fields)...)
}

func (a *loggerAdapter) Warn(msg string, fields ...logging.Field) {
	a.l.Warn(msg, toPublicFields(fields)...)
}

func (a *loggerAdapter) Error(msg string, fields ...logging.Field) {
	a.l.Error(msg, toPublicFields(fields)...)
}

func toPublicFields(fields []logging.Field) []LogField {
	out := make([]LogField, len(fields))
	for i, f := range fields {
		out[i] = LogField{Key: f.Key, Value: f.Value}
	}
	return out
}

func toInternalFields(fields []LogField) []logging.Field {
	out := make([]logging.Field, len(fields))
	for i, f := range fields {
		out[i] = logging.Field{Key: f.Key, Value: f.Value}
	}
	return out
}
