package console

import "testing"

// refInsert and refDelete mirror the edit line's semantics on a plain
// string so scripted edits can be checked against an obviously correct
// model.
func refInsert(s string, pos int, b byte) string {
	return s[:pos] + string(b) + s[pos:]
}

func refDelete(s string, pos int) string {
	return s[:pos-1] + s[pos:]
}

func TestEditLineScriptedEdits(t *testing.T) {
	l := newEditLine(32)
	want := ""

	type op struct {
		kind byte // 'i' insert, 'd' delete, 'l' left, 'r' right
		ch   byte
	}
	script := []op{
		{'i', 'h'}, {'i', 'e'}, {'i', 'l'}, {'i', 'o'},
		{'l', 0}, {'i', 'l'}, // hello
		{'r', 0}, {'i', '!'}, // hello!
		{'l', 0}, {'d', 0}, // hell!
		{'l', 0}, {'l', 0}, {'l', 0}, {'l', 0}, {'i', 'S'}, // Shell!
	}
	for i, o := range script {
		pos := l.n - l.offset
		switch o.kind {
		case 'i':
			if l.insert(o.ch) {
				want = refInsert(want, pos, o.ch)
			}
		case 'd':
			if l.deleteBack() {
				want = refDelete(want, pos)
			}
		case 'l':
			l.left()
		case 'r':
			l.right()
		}
		if got := string(l.bytes()); got != want {
			t.Fatalf("step %d: line = %q, want %q", i, got, want)
		}
		if l.offset < 0 || l.offset > l.n {
			t.Fatalf("step %d: offset %d outside [0,%d]", i, l.offset, l.n)
		}
	}
	if got := string(l.bytes()); got != "Shell!" {
		t.Fatalf("final line = %q, want %q", got, "Shell!")
	}
}

func TestEditLineCursorClamped(t *testing.T) {
	l := newEditLine(16)
	for _, b := range []byte("ab") {
		l.insert(b)
	}
	if l.right() {
		t.Fatalf("right at line end reported a move")
	}
	if !l.left() || !l.left() {
		t.Fatalf("left within line failed")
	}
	if l.left() {
		t.Fatalf("left at column 0 reported a move")
	}
	if l.offset != 2 {
		t.Fatalf("offset = %d, want 2", l.offset)
	}
}

func TestEditLineCapacity(t *testing.T) {
	l := newEditLine(4) // one byte reserved: holds 3
	for i := 0; i < 3; i++ {
		if !l.insert('x') {
			t.Fatalf("insert %d failed below capacity", i)
		}
	}
	if l.insert('x') {
		t.Fatalf("insert past capacity succeeded")
	}
	if l.n != 3 {
		t.Fatalf("n = %d, want 3", l.n)
	}
}

func TestEditLineDeleteAtStart(t *testing.T) {
	l := newEditLine(16)
	if l.deleteBack() {
		t.Fatalf("delete on empty line reported success")
	}
	l.insert('a')
	l.left()
	if l.deleteBack() {
		t.Fatalf("delete with cursor at column 0 reported success")
	}
	if got := string(l.bytes()); got != "a" {
		t.Fatalf("line = %q, want %q", got, "a")
	}
}

func TestEditLineSetTruncates(t *testing.T) {
	l := newEditLine(4)
	l.set([]byte("abcdef"))
	if got := string(l.bytes()); got != "abc" {
		t.Fatalf("line = %q, want %q", got, "abc")
	}
	if l.offset != 0 {
		t.Fatalf("offset = %d, want 0", l.offset)
	}
}
