package console

// VT100 sequences emitted by the console. The terminal on the far end of
// the byte channel interprets these verbatim; nothing here depends on the
// local tty.
const (
	seqInsertCol   = "\x1b[@"       // open one column at the cursor
	seqCursorRight = "\x1b[C"       // move right one column
	seqCursorLeft  = "\x1b[D"       // move left one column
	seqDeleteCol   = "\x1b[D\x1b[P" // step left, then delete that column
	seqClearLine   = "\x1b[2K\r"    // wipe the line, back to column 0
	seqClearScreen = "\x1b[2J\x1b[H"
)

// DefaultPrompt is printed at the start of every input line.
const DefaultPrompt = "# "
