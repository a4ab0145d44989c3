package console

// editLine is the in-progress command line. The cursor position is kept as
// its distance from the end of the text rather than from the start, so the
// common append-at-tail case is offset == 0 and the insertion index is
// always n - offset.
type editLine struct {
	buf    []byte
	n      int // current length, at most len(buf)-1
	offset int // cursor distance from the end, 0..n
}

func newEditLine(capacity int) *editLine {
	return &editLine{buf: make([]byte, capacity)}
}

// insert places b at the cursor, shifting the tail right one position.
// Reports false when the line is full; the byte is dropped silently.
func (l *editLine) insert(b byte) bool {
	if l.n >= len(l.buf)-1 {
		return false
	}
	pos := l.n - l.offset
	copy(l.buf[pos+1:l.n+1], l.buf[pos:l.n])
	l.buf[pos] = b
	l.n++
	return true
}

// deleteBack removes the byte left of the cursor, shifting the tail left.
// A cursor at column 0 has nothing to delete; reports false.
func (l *editLine) deleteBack() bool {
	pos := l.n - l.offset
	if pos == 0 {
		return false
	}
	copy(l.buf[pos-1:l.n-1], l.buf[pos:l.n])
	l.n--
	return true
}

// left and right move the cursor, clamped to [0, n]. They report whether a
// move actually happened so the caller emits escape sequences only for real
// movement.
func (l *editLine) left() bool {
	if l.offset >= l.n {
		return false
	}
	l.offset++
	return true
}

func (l *editLine) right() bool {
	if l.offset == 0 {
		return false
	}
	l.offset--
	return true
}

// set replaces the whole line with text, truncated to capacity, and parks
// the cursor at the end. Used when restoring a history entry.
func (l *editLine) set(text []byte) {
	l.n = copy(l.buf[:len(l.buf)-1], text)
	l.offset = 0
}

func (l *editLine) reset() {
	l.n = 0
	l.offset = 0
}

func (l *editLine) bytes() []byte {
	return l.buf[:l.n]
}
