package app

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/kobzarvs/qconsole/internal/command"
	"github.com/kobzarvs/qconsole/internal/config"
	"github.com/kobzarvs/qconsole/internal/console"
	"github.com/kobzarvs/qconsole/internal/logger"
)

const version = "0.1.0"

// pollInterval is the cadence of the consumer loop. Queued bytes wait at
// most this long before they are processed.
const pollInterval = 5 * time.Millisecond

// App is the top-level runtime for qconsole: it owns the tty, the producer
// goroutine feeding bytes into the console, and the poll loop draining it.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	debug := cfg.Log.Debug
	for _, arg := range a.args {
		if arg == "--debug" {
			debug = true
		}
	}
	if err := logger.Init(debug); err != nil {
		return err
	}
	defer logger.Close()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		old, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			return err
		}
		defer term.Restore(int(os.Stdin.Fd()), old)
	}
	return a.run(cfg, os.Stdin, os.Stdout)
}

// run wires one console between in and out and blocks until the user asks
// to quit or input ends. Split from Run so tests can drive it over a pty.
func (a *App) run(cfg config.Config, in io.Reader, out io.Writer) error {
	table := command.NewTable()
	con, err := console.New(out, table, console.Options{
		Prompt:      cfg.Console.Prompt,
		QueueSize:   cfg.Console.QueueSize,
		LineSize:    cfg.Console.LineSize,
		MaxArgs:     cfg.Console.MaxArgs,
		HistorySize: cfg.Console.HistorySize,
	})
	if err != nil {
		return err
	}

	quit := make(chan struct{})
	var quitOnce sync.Once
	stop := func() { quitOnce.Do(func() { close(quit) }) }
	con.OnClose(stop)
	registerBuiltins(table, con, stop)

	con.Println("qconsole " + version + "  (type 'help' for commands)")
	con.PrintPrompt()

	// Producer side: one goroutine pushes received bytes into the
	// console's queue. It never blocks on the consumer; a stalled
	// consumer shows up as an overflow message, not backpressure.
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := in.Read(buf)
			for _, b := range buf[:n] {
				con.FeedByte(b)
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	// Consumer side: drain the queue at a fixed cadence.
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			con.ProcessPending()
		case <-quit:
			logger.Info("shutdown requested")
			return nil
		case err := <-readErr:
			con.ProcessPending()
			select {
			case <-quit:
				return nil
			default:
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// registerBuiltins fills the dispatch table with the host's stock commands.
// Handlers write through the console so output shares the terminal channel
// with editing.
func registerBuiltins(table *command.Table, con *console.Console, stop func()) {
	table.Register(command.Command{
		Name: "help",
		Help: "list available commands",
		Run: func(args []string) error {
			for _, cmd := range table.Commands() {
				con.Printf("  %-10s %s\r\n", cmd.Name, cmd.Help)
			}
			return nil
		},
	})
	table.Register(command.Command{
		Name: "echo",
		Help: "print its arguments",
		Run: func(args []string) error {
			con.Println(strings.Join(args[1:], " "))
			return nil
		},
	})
	table.Register(command.Command{
		Name: "history",
		Help: "list stored command history, newest first",
		Run: func(args []string) error {
			i := 0
			con.History().Each(func(line []byte) {
				i++
				con.Printf("  %2d  %s\r\n", i, line)
			})
			return nil
		},
	})
	table.Register(command.Command{
		Name: "clear",
		Help: "clear the screen",
		Run: func(args []string) error {
			con.ClearScreen()
			return nil
		},
	})
	table.Register(command.Command{
		Name: "version",
		Help: "print the qconsole version",
		Run: func(args []string) error {
			con.Println("qconsole " + version)
			return nil
		},
	})
	table.Register(command.Command{
		Name: "exit",
		Help: "leave the console",
		Run: func(args []string) error {
			stop()
			return nil
		},
	})
}
