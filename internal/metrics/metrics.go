// Package metrics provides Prometheus instrumentation for chunkq queues.
//
// Collector tracks operation counters with atomics so the hot enqueue and
// dequeue paths never take a lock, and implements prometheus.Collector so
// callers can expose the numbers with a plain MustRegister:
//
//	collector := metrics.NewCollector("outbound")
//	prometheus.MustRegister(collector)
//
//	q, err := chunkq.OpenWithOptions(path, &chunkq.Options{
//	    ChunkSize:        1 << 20,
//	    MetricsCollector: collector,
//	})
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector tracks queue metrics and exposes them as Prometheus metrics.
type Collector struct {
	queueName string

	enqueueTotal  atomic.Uint64
	dequeueTotal  atomic.Uint64
	enqueueErrors atomic.Uint64
	dequeueErrors atomic.Uint64

	enqueueBytes atomic.Uint64
	dequeueBytes atomic.Uint64

	enqueueNanos atomic.Int64
	dequeueNanos atomic.Int64

	rotations atomic.Uint64
	chunks    atomic.Int64

	enqueueTotalDesc  *prometheus.Desc
	dequeueTotalDesc  *prometheus.Desc
	enqueueErrorsDesc *prometheus.Desc
	dequeueErrorsDesc *prometheus.Desc
	enqueueBytesDesc  *prometheus.Desc
	dequeueBytesDesc  *prometheus.Desc
	enqueueTimeDesc   *prometheus.Desc
	dequeueTimeDesc   *prometheus.Desc
	rotationsDesc     *prometheus.Desc
	chunksDesc        *prometheus.Desc
}

// NewCollector creates a metrics collector for the named queue. The name
// becomes the "queue" label on every metric.
func NewCollector(queueName string) *Collector {
	labels := prometheus.Labels{"queue": queueName}
	return &Collector{
		queueName: queueName,
		enqueueTotalDesc: prometheus.NewDesc("chunkq_enqueue_total",
			"Total number of successful enqueue operations.", nil, labels),
		dequeueTotalDesc: prometheus.NewDesc("chunkq_dequeue_total",
			"Total number of successful dequeue operations.", nil, labels),
		enqueueErrorsDesc: prometheus.NewDesc("chunkq_enqueue_errors_total",
			"Total number of failed enqueue operations.", nil, labels),
		dequeueErrorsDesc: prometheus.NewDesc("chunkq_dequeue_errors_total",
			"Total number of failed dequeue operations.", nil, labels),
		enqueueBytesDesc: prometheus.NewDesc("chunkq_enqueue_bytes_total",
			"Total payload bytes enqueued.", nil, labels),
		dequeueBytesDesc: prometheus.NewDesc("chunkq_dequeue_bytes_total",
			"Total payload bytes dequeued.", nil, labels),
		enqueueTimeDesc: prometheus.NewDesc("chunkq_enqueue_duration_seconds_total",
			"Cumulative wall time spent in enqueue operations.", nil, labels),
		dequeueTimeDesc: prometheus.NewDesc("chunkq_dequeue_duration_seconds_total",
			"Cumulative wall time spent in dequeue operations.", nil, labels),
		rotationsDesc: prometheus.NewDesc("chunkq_chunk_rotations_total",
			"Total number of drained chunks dropped from the chain front.", nil, labels),
		chunksDesc: prometheus.NewDesc("chunkq_chunks",
			"Current number of chunks in the chain.", nil, labels),
	}
}

// RecordEnqueue records a successful enqueue operation.
func (c *Collector) RecordEnqueue(payloadSize int, duration time.Duration) {
	c.enqueueTotal.Add(1)
	c.enqueueBytes.Add(uint64(payloadSize))
	c.enqueueNanos.Add(int64(duration))
}

// RecordDequeue records a successful dequeue operation.
func (c *Collector) RecordDequeue(payloadSize int, duration time.Duration) {
	c.dequeueTotal.Add(1)
	c.dequeueBytes.Add(uint64(payloadSize))
	c.dequeueNanos.Add(int64(duration))
}

// RecordEnqueueError records a failed enqueue operation.
func (c *Collector) RecordEnqueueError() {
	c.enqueueErrors.Add(1)
}

// RecordDequeueError records a failed dequeue operation.
func (c *Collector) RecordDequeueError() {
	c.dequeueErrors.Add(1)
}

// RecordRotation records the drop of a drained front chunk.
func (c *Collector) RecordRotation() {
	c.rotations.Add(1)
}

// UpdateQueueState records the current chain length.
func (c *Collector) UpdateQueueState(chunks int) {
	c.chunks.Store(int64(chunks))
}

// Snapshot is a point-in-time view of the counters, for callers that want
// the numbers without going through Prometheus.
type Snapshot struct {
	EnqueueTotal  uint64
	DequeueTotal  uint64
	EnqueueErrors uint64
	DequeueErrors uint64
	EnqueueBytes  uint64
	DequeueBytes  uint64
	Rotations     uint64
	Chunks        int64
}

// GetSnapshot returns the current counter values.
func (c *Collector) GetSnapshot() Snapshot {
	return Snapshot{
		EnqueueTotal:  c.enqueueTotal.Load(),
		DequeueTotal:  c.dequeueTotal.Load(),
		EnqueueErrors: c.enqueueErrors.Load(),
		DequeueErrors: c.dequeueErrors.Load(),
		EnqueueBytes:  c.enqueueBytes.Load(),
		DequeueBytes:  c.dequeueBytes.Load(),
		Rotations:     c.rotations.Load(),
		Chunks:        c.chunks.Load(),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.enqueueTotalDesc
	ch <- c.dequeueTotalDesc
	ch <- c.enqueueErrorsDesc
	ch <- c.dequeueErrorsDesc
	ch <- c.enqueueBytesDesc
	ch <- c.dequeueBytesDesc
	ch <- c.enqueueTimeDesc
	ch <- c.dequeueTimeDesc
	ch <- c.rotationsDesc
	ch <- c.chunksDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v)
	}
	counter(c.enqueueTotalDesc, float64(c.enqueueTotal.Load()))
	counter(c.dequeueTotalDesc, float64(c.dequeueTotal.Load()))
	counter(c.enqueueErrorsDesc, float64(c.enqueueErrors.Load()))
	counter(c.dequeueErrorsDesc, float64(c.dequeueErrors.Load()))
	counter(c.enqueueBytesDesc, float64(c.enqueueBytes.Load()))
	counter(c.dequeueBytesDesc, float64(c.dequeueBytes.Load()))
	counter(c.enqueueTimeDesc, time.Duration(c.enqueueNanos.Load()).Seconds())
	counter(c.dequeueTimeDesc, time.Duration(c.dequeueNanos.Load()).Seconds())
	counter(c.rotationsDesc, float64(c.rotations.Load()))
	ch <- prometheus.MustNewConstMetric(c.chunksDesc, prometheus.GaugeValue, float64(c.chunks.Load()))
}
