package console

import "testing"

func TestQueueFIFO(t *testing.T) {
	q := newByteQueue(128)
	for i := 0; i < 100; i++ {
		if !q.push(byte(i)) {
			t.Fatalf("push %d failed on non-full queue", i)
		}
	}
	for i := 0; i < 100; i++ {
		b, ok := q.pop()
		if !ok {
			t.Fatalf("pop %d on non-empty queue reported empty", i)
		}
		if b != byte(i) {
			t.Fatalf("pop %d = %d, want %d", i, b, i)
		}
	}
	if _, ok := q.pop(); ok {
		t.Fatalf("pop on drained queue reported a byte")
	}
	if !q.empty() {
		t.Fatalf("drained queue not empty")
	}
}

func TestQueueFullPushRejected(t *testing.T) {
	q := newByteQueue(8)
	// One slot is sacrificed: capacity 8 holds 7 bytes.
	for i := 0; i < 7; i++ {
		if !q.push(byte(i)) {
			t.Fatalf("push %d failed before capacity", i)
		}
	}
	if q.push(99) {
		t.Fatalf("push into full queue succeeded")
	}
	// The rejected push must not have corrupted anything.
	for i := 0; i < 7; i++ {
		b, ok := q.pop()
		if !ok || b != byte(i) {
			t.Fatalf("pop %d = %d ok=%v, want %d true", i, b, ok, i)
		}
	}
	if !q.empty() {
		t.Fatalf("queue not empty after draining")
	}
}

func TestQueueWraparound(t *testing.T) {
	q := newByteQueue(8)
	// Interleave pushes and pops well past the capacity so the indices
	// wrap several times.
	next := byte(0)
	expect := byte(0)
	for round := 0; round < 10; round++ {
		for i := 0; i < 5; i++ {
			if !q.push(next) {
				t.Fatalf("round %d: push failed", round)
			}
			next++
		}
		for i := 0; i < 5; i++ {
			b, ok := q.pop()
			if !ok || b != expect {
				t.Fatalf("round %d: pop = %d ok=%v, want %d true", round, b, ok, expect)
			}
			expect++
		}
	}
}
