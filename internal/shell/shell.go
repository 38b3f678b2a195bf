package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/muesli/termenv"

	"devconsole/internal/autocomplete"
	"devconsole/internal/console"
	"devconsole/internal/logger"
	"devconsole/internal/output"
)

// Prompt is the interactive prompt.
const Prompt = "devcon> "

// Waiter is implemented by extensions that finish work in the background.
type Waiter interface {
	Wait()
}

// Shell drives a console from a terminal.
type Shell struct {
	console *console.Console
	waiters []Waiter
	options []output.Option
}

// New creates a shell for c. Printer options apply to entry rendering.
func New(c *console.Console, printerOptions ...output.Option) *Shell {
	return &Shell{console: c, options: printerOptions}
}

// WaitFor makes scripts wait for w after every line.
func (s *Shell) WaitFor(w ...Waiter) {
	s.waiters = append(s.waiters, w...)
}

// Run reads lines until EOF or interrupt on an empty line.
func (s *Shell) Run(ctx context.Context) error {
	var painter readline.Painter
	if output.DetectProfile(readline.Stdout) != termenv.Ascii {
		painter = newCommandPainter(lipgloss.NewRenderer(readline.Stdout))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		AutoComplete:    &autocomplete.ReadlineCompleter{Snapshot: s.console.CompletionSnapshot},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		HistoryLimit:    s.console.History().Size(),
		Painter:         painter,
	})
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	defer func() {
		_ = rl.Close()
	}()

	printer := output.NewPrinter(append([]output.Option{output.WithWriter(rl.Stdout())}, s.options...)...)
	tail := NewTail(printer)
	unsubscribe := s.console.Subscribe(tail.Update)
	defer unsubscribe()

	printer.Println("DevConsole - type /help for commands, Ctrl-D to exit.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read line: %w", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		out := s.console.Submit(ctx, line)
		logger.Debug("Shell line processed", "state", out.State.String(), "command", out.Command)
	}
}

// RunScript submits every non-blank line of r that does not start with '#'
// and prints the log as it grows. It returns the number of lines submitted.
func (s *Shell) RunScript(ctx context.Context, r io.Reader, w io.Writer) (int, error) {
	printer := output.NewPrinter(append([]output.Option{output.WithWriter(w)}, s.options...)...)
	tail := NewTail(printer)
	unsubscribe := s.console.Subscribe(tail.Update)
	defer unsubscribe()

	scanner := bufio.NewScanner(r)
	submitted := 0
	for lineNo := 1; scanner.Scan(); lineNo++ {
		if err := ctx.Err(); err != nil {
			return submitted, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		out := s.console.Submit(ctx, line)
		submitted++
		for _, w := range s.waiters {
			w.Wait()
		}
		logger.Debug("Script line processed", "line", lineNo, "state", out.State.String())
	}
	if err := scanner.Err(); err != nil {
		return submitted, fmt.Errorf("failed to read script: %w", err)
	}
	return submitted, nil
}
