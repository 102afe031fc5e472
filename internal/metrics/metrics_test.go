package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("test")

	c.RecordEnqueue(100, time.Millisecond)
	c.RecordEnqueue(50, time.Millisecond)
	c.RecordDequeue(100, time.Millisecond)
	c.RecordEnqueueError()
	c.RecordRotation()
	c.UpdateQueueState(3)

	snap := c.GetSnapshot()
	assert.Equal(t, uint64(2), snap.EnqueueTotal)
	assert.Equal(t, uint64(150), snap.EnqueueBytes)
	assert.Equal(t, uint64(1), snap.DequeueTotal)
	assert.Equal(t, uint64(100), snap.DequeueBytes)
	assert.Equal(t, uint64(1), snap.EnqueueErrors)
	assert.Equal(t, uint64(0), snap.DequeueErrors)
	assert.Equal(t, uint64(1), snap.Rotations)
	assert.Equal(t, int64(3), snap.Chunks)
}

func TestCollector_Prometheus(t *testing.T) {
	c := NewCollector("orders")

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	c.RecordEnqueue(10, time.Millisecond)
	c.RecordDequeue(10, time.Millisecond)
	c.UpdateQueueState(1)

	expected := `
# HELP chunkq_enqueue_total Total number of successful enqueue operations.
# TYPE chunkq_enqueue_total counter
chunkq_enqueue_total{queue="orders"} 1
# HELP chunkq_dequeue_total Total number of successful dequeue operations.
# TYPE chunkq_dequeue_total counter
chunkq_dequeue_total{queue="orders"} 1
# HELP chunkq_chunks Current number of chunks in the chain.
# TYPE chunkq_chunks gauge
chunkq_chunks{queue="orders"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"chunkq_enqueue_total", "chunkq_dequeue_total", "chunkq_chunks")
	require.NoError(t, err)
}

func TestCollector_RegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewCollector("a")))
	// Same queue label means identical descriptors.
	require.Error(t, reg.Register(NewCollector("a")))
}
