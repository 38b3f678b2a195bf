package console

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"devconsole/internal/commands"
	"devconsole/internal/logger"
	"devconsole/internal/parser"
	"devconsole/pkg/consoletypes"
)

// Exporter writes a snapshot of entries somewhere and reports where.
type Exporter interface {
	Export(ctx context.Context, entries []consoletypes.LogEntry, format string) (string, error)
}

// quickClear keywords empty the store without the command marker.
var quickClear = map[string]bool{"clear": true, "cls": true}

// ExpressionMarker prefixes free-form expressions.
const ExpressionMarker = ">"

// dispatch is the per-line execution record the state machine works on.
type dispatch struct {
	ctx      context.Context
	state    State
	input    string
	resolved string
	name     string
	args     []string
	run      func() error
	err      error
	done     bool
}

// Submit runs one input line through the dispatcher. Every path either emits
// at least one entry or clears the store; failures are logged, never returned
// as a failure of Submit. The trimmed line is recorded in history unless blank.
func (c *Console) Submit(ctx context.Context, line string) Outcome {
	d := &dispatch{
		ctx:   ctx,
		state: StateIdle,
		input: strings.TrimSpace(line),
	}
	if d.input != "" {
		c.history.Add(d.input)
	}

	logger.Debug("Dispatch started", "input", d.input)
	for !d.done {
		current := d.state
		logger.Debug("Dispatch processing", "state", current.String())

		next := c.step(d)
		if next == current && !d.done {
			logger.Error("Dispatch stuck", "state", current.String())
			d.err = fmt.Errorf("dispatch stuck in state: %s", current)
			break
		}
		d.state = next
	}

	logger.CommandDispatch(d.input, d.state.String(), d.name)
	return Outcome{State: d.state, Command: d.name, Args: d.args, Err: d.err}
}

// step performs the work of the current state and returns the next one.
func (c *Console) step(d *dispatch) State {
	switch d.state {
	case StateIdle:
		return c.classify(d)
	case StateResolving:
		return c.resolve(d)
	case StateTokenizing:
		d.name, d.args = parser.SplitCommand(d.resolved)
		return StateRouting
	case StateRouting:
		return c.route(d)
	case StateExecuting:
		d.err = d.run()
		d.done = true
		return StateExecuting
	default:
		d.done = true
		return d.state
	}
}

func (c *Console) classify(d *dispatch) State {
	switch {
	case strings.HasPrefix(d.input, ExpressionMarker):
		d.err = c.evaluate(d.ctx, strings.TrimSpace(strings.TrimPrefix(d.input, ExpressionMarker)))
		return c.finish(d, StateEvaluated)
	case quickClear[d.input]:
		c.store.Clear()
		return c.finish(d, StateCleared)
	case !strings.HasPrefix(d.input, parser.CommandMarker):
		c.Dev("Invalid input. Use / for commands or > for expressions.")
		d.err = ErrInvalidSyntax
		return c.finish(d, StateRejected)
	default:
		return StateResolving
	}
}

func (c *Console) resolve(d *dispatch) State {
	res := c.vars.Resolve(d.input)
	if !res.OK() {
		c.Dev("Unresolved variables: " + formatPlaceholders(res.Unresolved))
		d.err = &UnresolvedVariableError{Names: res.Unresolved}
		return c.finish(d, StateRejected)
	}
	d.resolved = res.Resolved
	return StateTokenizing
}

// route picks a built-in first, then the registry.
func (c *Console) route(d *dispatch) State {
	if commands.IsBuiltin(d.name) {
		name, args := d.name, d.args
		d.run = func() error { return c.runBuiltin(d.ctx, name, args) }
		return StateExecuting
	}

	cmd, ok := c.registry.Get(d.name)
	if !ok {
		c.Dev(fmt.Sprintf("Unknown command: /%s. Type /help for available commands.", d.name))
		d.err = &UnknownCommandError{Name: d.name}
		return c.finish(d, StateRejected)
	}

	name, args := d.name, d.args
	d.run = func() error { return c.runHandler(d.ctx, name, cmd, args) }
	return StateExecuting
}

func (c *Console) finish(d *dispatch, terminal State) State {
	d.done = true
	return terminal
}

// runHandler invokes a registered handler inside the failure boundary.
func (c *Console) runHandler(ctx context.Context, name string, cmd consoletypes.Command, args []string) error {
	err := invoke(ctx, cmd, args)
	if err == nil {
		return nil
	}
	c.store.Emit(consoletypes.LevelError, fmt.Sprintf("Error executing command /%s:", name), consoletypes.FailureOf(err))
	return &HandlerError{Command: name, Err: err}
}

func invoke(ctx context.Context, cmd consoletypes.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	if cmd.Handler == nil {
		return errors.New("command has no handler")
	}
	return cmd.Handler(ctx, args)
}

// evaluate hands expr to the evaluator and logs the result or failure under
// "> expr".
func (c *Console) evaluate(ctx context.Context, expr string) error {
	if expr == "" {
		c.Dev("Usage: > <expression>")
		return nil
	}

	message := ExpressionMarker + " " + expr
	if c.evaluator == nil {
		c.store.Emit(consoletypes.LevelDev, message, consoletypes.FailureOf(ErrEvaluationDisabled))
		return &ExpressionError{Expr: expr, Err: ErrEvaluationDisabled}
	}

	result, err := safeEvaluate(ctx, c.evaluator, expr)
	if err != nil {
		c.store.Emit(consoletypes.LevelDev, message, consoletypes.FailureOf(err))
		return &ExpressionError{Expr: expr, Err: err}
	}
	c.store.Emit(consoletypes.LevelDev, message, consoletypes.PayloadOf(result))
	return nil
}

func safeEvaluate(ctx context.Context, e consoletypes.Evaluator, expr string) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return e.Evaluate(ctx, expr)
}
