// Package console implements an interactive line-editing console over a
// byte-oriented channel. Incoming bytes are buffered through a
// single-producer/single-consumer ring, classified by a small escape-state
// machine, and applied to an editable line with scrollable history; a
// submitted line is tokenized and dispatched against a command table.
//
// The console owns no transport. It reads nothing itself: the host feeds it
// one byte at a time via FeedByte (typically from a reader goroutine) and
// drives processing via ProcessPending; everything the console wants to show
// is written to the io.Writer it was constructed with.
package console

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/kobzarvs/qconsole/internal/command"
	"github.com/kobzarvs/qconsole/internal/history"
	"github.com/kobzarvs/qconsole/internal/logger"
)

// inputState tracks escape-sequence recognition. Sequences are recognized
// with an explicit machine rather than by inspecting previously consumed
// bytes.
type inputState int

const (
	stateGround inputState = iota
	stateEscape            // seen ESC
	stateCSI               // seen ESC [
)

// Options fixes the console's geometry at construction time.
type Options struct {
	Prompt      string
	QueueSize   int // input ring capacity, power of two
	LineSize    int // line buffer capacity, one byte reserved
	MaxArgs     int
	HistorySize int // history arena size in bytes
}

// DefaultOptions mirrors the sizes a small serial device would compile in.
func DefaultOptions() Options {
	return Options{
		Prompt:      DefaultPrompt,
		QueueSize:   128,
		LineSize:    256,
		MaxArgs:     16,
		HistorySize: 1024,
	}
}

func (o Options) validate() error {
	if o.QueueSize < 2 || o.QueueSize&(o.QueueSize-1) != 0 {
		return fmt.Errorf("queue size %d is not a power of two", o.QueueSize)
	}
	if o.LineSize < 2 {
		return fmt.Errorf("line size %d is too small", o.LineSize)
	}
	if o.MaxArgs < 1 {
		return fmt.Errorf("max args %d is too small", o.MaxArgs)
	}
	if o.HistorySize < 1 {
		return fmt.Errorf("history size %d is too small", o.HistorySize)
	}
	return nil
}

// Console is one independent console instance. All mutable state lives
// here; two consoles never share anything.
//
// FeedByte may be called concurrently with ProcessPending, but only from a
// single producer. Everything else runs on the consumer side.
type Console struct {
	w     io.Writer
	opts  Options
	table *command.Table

	queue    *byteQueue
	overflow atomic.Bool

	line *editLine
	hist *history.List

	state    inputState
	prevByte byte

	closeReq func()
}

// New creates a console writing to w and dispatching against table.
func New(w io.Writer, table *command.Table, opts Options) (*Console, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Console{
		w:     w,
		opts:  opts,
		table: table,
		queue: newByteQueue(opts.QueueSize),
		line:  newEditLine(opts.LineSize),
		hist:  history.New(opts.HistorySize),
	}, nil
}

// History exposes the history list, e.g. for a "history" builtin.
func (c *Console) History() *history.List { return c.hist }

// OnClose registers fn to run when the user requests shutdown (Ctrl-D on an
// empty line). It is called from the consumer side, inside ProcessPending.
func (c *Console) OnClose(fn func()) { c.closeReq = fn }

// FeedByte enqueues one received byte. It never blocks; on a full queue the
// byte is dropped and an overflow is recorded for the next processing pass.
// This is the producer half of the console and the only method safe to call
// from another goroutine.
func (c *Console) FeedByte(b byte) {
	if !c.queue.push(b) {
		c.overflow.Store(true)
	}
}

// ProcessPending drains all currently queued bytes, applying editing,
// history and dispatch side effects, then surfaces any overflow that was
// recorded since the last pass. Overflow is reported, not retried: the
// bytes are gone, so the half-typed line is discarded too.
func (c *Console) ProcessPending() {
	for {
		b, ok := c.queue.pop()
		if !ok {
			break
		}
		c.handleByte(b)
		c.prevByte = b
	}
	if c.overflow.Swap(false) {
		logger.Warn("input queue overflow, line dropped")
		c.line.reset()
		c.Print("\r\nerror: input overflow, line dropped\r\n")
		c.Print(c.opts.Prompt)
	}
}

func (c *Console) handleByte(b byte) {
	switch c.state {
	case stateEscape:
		if b == '[' {
			c.state = stateCSI
		} else {
			// Bare ESC followed by something else; swallow both.
			c.state = stateGround
		}
	case stateCSI:
		c.state = stateGround
		c.handleEscapeFinal(b)
	default:
		if b == 0x1b {
			c.state = stateEscape
			return
		}
		if p := b & 0x7f; p >= 0x20 && p != 0x7f {
			c.insertChar(p)
			return
		}
		c.handleControl(b)
	}
}

// handleEscapeFinal acts on a CSI final byte. Unrecognized finals are
// ignored.
func (c *Console) handleEscapeFinal(b byte) {
	switch b {
	case 'A':
		if text, ok := c.hist.Back(); ok {
			c.showLine(text)
		}
	case 'B':
		if text, ok := c.hist.Forward(); ok {
			c.showLine(text)
		}
	case 'C':
		if c.line.right() {
			c.Print(seqCursorRight)
		}
	case 'D':
		if c.line.left() {
			c.Print(seqCursorLeft)
		}
	case 'H': // home
		for c.line.left() {
			c.Print(seqCursorLeft)
		}
	case 'F': // end
		for c.line.right() {
			c.Print(seqCursorRight)
		}
	}
}

func (c *Console) handleControl(b byte) {
	switch b {
	case '\r':
		c.submit()
	case '\n':
		// A LF right after CR already submitted; CRLF submits once.
		if c.prevByte != '\r' {
			c.submit()
		}
	case 0x7f, '\b':
		if c.line.deleteBack() {
			c.Print(seqDeleteCol)
		}
	case 0x03: // Ctrl-C cancels the line without submitting
		c.line.reset()
		c.hist.ResetCursor()
		c.Print("^C\r\n")
		c.Print(c.opts.Prompt)
	case 0x04: // Ctrl-D on an empty line asks the host to shut down
		if len(c.line.bytes()) == 0 && c.closeReq != nil {
			c.Print("\r\n")
			c.closeReq()
		}
	}
}

// insertChar puts b into the line at the cursor and echoes it. When the
// cursor is mid-line the terminal first opens a column so the on-screen
// tail shifts right along with the buffer.
func (c *Console) insertChar(b byte) {
	if !c.line.insert(b) {
		return // line full, input ignored until something is deleted
	}
	if c.line.offset > 0 {
		c.Print(seqInsertCol)
	}
	c.putByte(b)
}

// showLine redraws the prompt line with text, or with the empty live line
// when text is nil. Used by history navigation.
func (c *Console) showLine(text []byte) {
	c.Print(seqClearLine)
	c.Print(c.opts.Prompt)
	c.line.reset()
	if text != nil {
		c.line.set(text)
		c.w.Write(text)
	}
}

// submit finishes the current line: records it in history, tokenizes and
// dispatches it, and starts a fresh prompt. Every failure is surfaced as a
// message; the console always comes back ready for input.
func (c *Console) submit() {
	c.Print("\r\n")
	line := c.line.bytes()
	c.hist.Record(line)
	c.hist.ResetCursor()
	args, err := command.Tokenize(line, c.opts.MaxArgs)
	if err != nil {
		c.Printf("error: %v\r\n", err)
	} else if err := c.table.Dispatch(args); err != nil {
		c.Printf("error: %v\r\n", err)
	}
	c.line.reset()
	c.Print(c.opts.Prompt)
}

// PrintPrompt writes the prompt; the host calls it once at startup.
func (c *Console) PrintPrompt() {
	c.Print(c.opts.Prompt)
}

// ClearScreen wipes the terminal and homes the cursor.
func (c *Console) ClearScreen() {
	c.Print(seqClearScreen)
}

// Print writes s to the terminal verbatim. Raw-mode terminals need CRLF
// line endings; callers include them.
func (c *Console) Print(s string) {
	io.WriteString(c.w, s)
}

// Println writes s followed by CRLF.
func (c *Console) Println(s string) {
	io.WriteString(c.w, s)
	io.WriteString(c.w, "\r\n")
}

// Printf formats into the terminal.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.w, format, a...)
}

func (c *Console) putByte(b byte) {
	c.w.Write([]byte{b})
}
