package console

// State is a step of the dispatch state machine. Submit walks
// Idle → Resolving → Tokenizing → Routing → Executing or Rejected and reports
// where the walk ended.
type State int

const (
	// StateIdle - no input being processed
	StateIdle State = iota
	// StateResolving - substituting ${name} placeholders
	StateResolving
	// StateTokenizing - splitting the resolved line into arguments
	StateTokenizing
	// StateRouting - choosing a built-in or a registered command
	StateRouting
	// StateExecuting - a command ran, successfully or not
	StateExecuting
	// StateRejected - the line was refused before execution
	StateRejected
	// StateCleared - the quick-clear keyword emptied the log store
	StateCleared
	// StateEvaluated - an expression was handed to the evaluator
	StateEvaluated
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateResolving:
		return "Resolving"
	case StateTokenizing:
		return "Tokenizing"
	case StateRouting:
		return "Routing"
	case StateExecuting:
		return "Executing"
	case StateRejected:
		return "Rejected"
	case StateCleared:
		return "Cleared"
	case StateEvaluated:
		return "Evaluated"
	default:
		return "Unknown"
	}
}

// Outcome describes how one submitted line was handled. Err carries the
// failure that was already logged, if any; it is informational.
type Outcome struct {
	State   State
	Command string
	Args    []string
	Err     error
}
