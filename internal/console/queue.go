package console

import "sync/atomic"

// byteQueue is a fixed-capacity single-producer/single-consumer ring of raw
// input bytes. The capacity must be a power of two so index wraparound is a
// bitmask instead of a modulo. One slot is sacrificed to distinguish a full
// queue from an empty one, so the queue holds at most capacity-1 bytes.
//
// push is only ever called from the producer side (FeedByte) and pop/empty
// only from the consumer side (ProcessPending). The atomic index loads and
// stores are what make that pairing safe without a lock; the queue is not
// safe for multiple producers or multiple consumers.
type byteQueue struct {
	data  []byte
	mask  uint32
	write atomic.Uint32
	read  atomic.Uint32
}

func newByteQueue(capacity int) *byteQueue {
	return &byteQueue{
		data: make([]byte, capacity),
		mask: uint32(capacity - 1),
	}
}

// push stores one byte and reports whether there was room. On a full queue
// nothing is written; the caller decides how to record the loss.
func (q *byteQueue) push(b byte) bool {
	w := q.write.Load()
	next := (w + 1) & q.mask
	if next == q.read.Load() {
		return false
	}
	q.data[w] = b
	q.write.Store(next)
	return true
}

// pop removes and returns the oldest byte, or reports an empty queue.
func (q *byteQueue) pop() (byte, bool) {
	r := q.read.Load()
	if r == q.write.Load() {
		return 0, false
	}
	b := q.data[r]
	q.read.Store((r + 1) & q.mask)
	return b, true
}

func (q *byteQueue) empty() bool {
	return q.read.Load() == q.write.Load()
}
