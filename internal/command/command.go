// Package command implements the console's dispatch table: a tokenizer that
// splits a submitted line into arguments and an ordered registry of named
// handlers searched linearly by exact name.
package command

import (
	"errors"
	"fmt"

	"github.com/kobzarvs/qconsole/internal/logger"
)

var (
	// ErrTooManyArgs is returned when a line tokenizes into more arguments
	// than the configured maximum. The line is discarded without dispatch.
	ErrTooManyArgs = errors.New("too many arguments")

	// ErrUnknownCommand is returned when no table entry matches the first
	// token.
	ErrUnknownCommand = errors.New("command not found")
)

// Command is one entry in the dispatch table.
type Command struct {
	Name string
	Help string
	Run  func(args []string) error
}

// Table is an ordered command registry. Lookup is a linear scan by exact
// name; registration order is preserved for help listings.
type Table struct {
	cmds []Command
}

func NewTable() *Table {
	return &Table{}
}

// Register appends cmd to the table. Names are not deduplicated; the first
// registration wins at dispatch time.
func (t *Table) Register(cmd Command) {
	t.cmds = append(t.cmds, cmd)
}

// Commands returns the table entries in registration order.
func (t *Table) Commands() []Command {
	return t.cmds
}

// Dispatch invokes the handler matching args[0] and propagates its error.
// An empty argument list is a no-op.
func (t *Table) Dispatch(args []string) error {
	if len(args) == 0 {
		return nil
	}
	for _, cmd := range t.cmds {
		if cmd.Name == args[0] {
			if err := cmd.Run(args); err != nil {
				logger.Debug("command failed", "name", cmd.Name, "err", err)
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
}

// Tokenize splits line into arguments on runs of spaces and tabs. It fails
// with ErrTooManyArgs when the line holds more than maxArgs tokens.
func Tokenize(line []byte, maxArgs int) ([]string, error) {
	var args []string
	start := -1
	for i := 0; i <= len(line); i++ {
		if i < len(line) && line[i] != ' ' && line[i] != '\t' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if len(args) == maxArgs {
				return nil, ErrTooManyArgs
			}
			args = append(args, string(line[start:i]))
			start = -1
		}
	}
	return args, nil
}
