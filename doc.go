// Package chunkq provides a durable, single-process FIFO byte queue backed
// by a chain of fixed-size files on a local filesystem.
//
// A queue lives at a head-file path; chunk files sit next to it, named
// after it. Each element is an opaque byte record. Enqueued entries survive
// process restarts: a queue closed while non-empty reopens with every entry
// in order, and a queue drained to empty cleans its files off disk on
// Close.
//
// The on-disk format is a two-byte head file recording the first chunk of
// the chain, plus chunk files of exactly the configured size:
//
//	head file := first(2)
//	chunk     := headPtr(4) tailPtr(4) nextRef(2) entry*
//	entry     := length(2) data
//
// All multi-byte fields are big-endian. The head file is exclusively locked
// while the queue is open, and so is every chunk file the queue holds open
// (a full chunk is closed when it stops being the tail and reopened when
// it reaches the front); a second opener fails with ErrAlreadyOpen.
//
// Queue is not safe for concurrent use; PollableQueue wraps one behind a
// guard and lets consumers block until data arrives:
//
//	q, err := chunkq.Open("/var/spool/outbound", 1<<20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer q.Close()
//
//	if err := q.Enqueue([]byte("hello")); err != nil {
//	    log.Fatal(err)
//	}
//
//	payload, err := q.Peek()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := q.Dequeue(); err != nil {
//	    log.Fatal(err)
//	}
package chunkq
