// Package history keeps the console's scrollable command history inside a
// fixed, pre-allocated byte arena. Entries are carved out of the arena in
// FIFO order and the oldest ones are evicted when a new entry needs room, so
// memory use is bounded no matter how long the session runs.
package history

import (
	"bytes"

	"github.com/kobzarvs/qconsole/internal/logger"
)

// alignment is the allocator granularity. Payload sizes are rounded up to a
// multiple of it, which also bounds the number of live entries to
// arenaSize/alignment and guarantees a free slot for every allocation that
// fits.
const alignment = 8

// none marks an empty slot link.
const none = -1

// slot is one history node. Links are slot indices into the slot table, not
// addresses: prev points at the next-newer entry, next at the next-older one.
type slot struct {
	off  int // payload start in the arena
	size int // reserved bytes (aligned)
	n    int // payload length
	prev int
	next int
}

// List is a doubly linked sequence of command lines backed by a ring
// allocator over a fixed byte arena. The live payload range is tracked as a
// head/tail pair over the ring: head is the start of the oldest payload,
// tail is one past the newest. Free space is derived from those bounds
// alone, never from comparing entry positions.
//
// List is not safe for concurrent use; the console mutates it only from its
// consumer side.
type List struct {
	arena  []byte
	slots  []slot
	free   []int
	newest int
	oldest int
	head   int
	tail   int
	count  int
	cursor int // selected entry during navigation; none = the live line
}

// New creates a history list over an arena of the given size in bytes. The
// size is rounded up to the allocator alignment.
func New(size int) *List {
	size = alignUp(size)
	nslots := size / alignment
	l := &List{
		arena:  make([]byte, size),
		slots:  make([]slot, nslots),
		free:   make([]int, 0, nslots),
		newest: none,
		oldest: none,
		cursor: none,
	}
	for i := nslots - 1; i >= 0; i-- {
		l.free = append(l.free, i)
	}
	return l
}

// Len returns the number of stored entries.
func (l *List) Len() int { return l.count }

// Record stores line as the newest entry. Blank lines (no printable
// character) and lines identical to the current newest entry are skipped.
// When the arena is full, oldest entries are evicted until the line fits;
// if it cannot fit even into an empty arena the record is dropped. History
// is best-effort: Record never fails the caller.
func (l *List) Record(line []byte) bool {
	if !hasPrintable(line) {
		return false
	}
	if l.count > 0 && bytes.Equal(l.payload(l.newest), line) {
		return false
	}
	need := alignUp(len(line))
	off, ok := l.allocate(need)
	for !ok && l.count > 0 {
		l.evictOldest()
		off, ok = l.allocate(need)
	}
	if !ok {
		logger.Debug("history entry dropped, line larger than arena", "len", len(line))
		return false
	}

	idx := l.free[len(l.free)-1]
	l.free = l.free[:len(l.free)-1]
	copy(l.arena[off:], line)
	l.slots[idx] = slot{off: off, size: need, n: len(line), prev: none, next: l.newest}
	if l.count == 0 {
		l.oldest = idx
	} else {
		l.slots[l.newest].prev = idx
	}
	l.newest = idx
	l.count++
	return true
}

// allocate reserves need bytes of contiguous arena space and returns its
// offset. The live range is [head, tail) when tail > head, or
// [head, len) + [0, tail) once the ring has wrapped.
func (l *List) allocate(need int) (int, bool) {
	if l.count == 0 {
		l.head, l.tail = 0, 0
		if need > len(l.arena) {
			return 0, false
		}
		l.tail = need
		return 0, true
	}
	if l.tail > l.head {
		if l.tail+need <= len(l.arena) {
			off := l.tail
			l.tail += need
			return off, true
		}
		// Wrap to the base if the block fits before the oldest payload.
		if need <= l.head {
			l.tail = need
			return 0, true
		}
		return 0, false
	}
	// Already wrapped: the block must fit in the gap before the oldest.
	if l.tail+need <= l.head {
		off := l.tail
		l.tail += need
		return off, true
	}
	return 0, false
}

// evictOldest unlinks and frees the oldest entry. Freed space is never
// compacted; it becomes usable again when the allocator's forward search
// reaches it.
func (l *List) evictOldest() {
	idx := l.oldest
	if idx == none {
		return
	}
	if l.cursor == idx {
		l.cursor = none
	}
	newer := l.slots[idx].prev
	l.free = append(l.free, idx)
	l.count--
	logger.Debug("history entry evicted", "len", l.slots[idx].n, "remaining", l.count)
	if l.count == 0 {
		l.newest, l.oldest = none, none
		l.head, l.tail = 0, 0
		return
	}
	l.slots[newer].next = none
	l.oldest = newer
	l.head = l.slots[newer].off
}

// Back moves the selection one entry older: from the live line to the
// newest entry, or from the selected entry to the next-older one. It
// returns the payload to display and whether the selection moved; at the
// true oldest entry there is nowhere left to go.
func (l *List) Back() ([]byte, bool) {
	if l.cursor == none {
		if l.count == 0 {
			return nil, false
		}
		l.cursor = l.newest
	} else {
		next := l.slots[l.cursor].next
		if next == none {
			return nil, false
		}
		l.cursor = next
	}
	return l.payload(l.cursor), true
}

// Forward moves the selection one entry newer. Stepping past the newest
// entry returns to the live line, reported as a nil payload. With no
// selection it does nothing.
func (l *List) Forward() ([]byte, bool) {
	if l.cursor == none {
		return nil, false
	}
	l.cursor = l.slots[l.cursor].prev
	if l.cursor == none {
		return nil, true
	}
	return l.payload(l.cursor), true
}

// ResetCursor drops the navigation selection back to the live line. Called
// whenever a line is submitted.
func (l *List) ResetCursor() { l.cursor = none }

// Each calls fn for every stored line, newest first.
func (l *List) Each(fn func(line []byte)) {
	for idx := l.newest; idx != none; idx = l.slots[idx].next {
		fn(l.payload(idx))
	}
}

func (l *List) payload(idx int) []byte {
	s := l.slots[idx]
	return l.arena[s.off : s.off+s.n]
}

func alignUp(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}

// hasPrintable reports whether line contains at least one non-blank
// printable byte. Space-only lines count as blank.
func hasPrintable(line []byte) bool {
	for _, b := range line {
		if b > 0x20 && b < 0x7f {
			return true
		}
	}
	return false
}
