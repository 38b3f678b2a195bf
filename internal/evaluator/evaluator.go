// Package evaluator runs operator-typed Go expressions for the console's ">"
// path using the yaegi interpreter. Only a small set of standard library
// packages is exposed; there is no filesystem, process or network access.
// It is still arbitrary code execution and must only face trusted operators.
package evaluator

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"devconsole/internal/logger"
)

// DefaultPackages are importable from expressions.
var DefaultPackages = []string{
	"bytes",
	"encoding/base64",
	"encoding/json",
	"fmt",
	"math",
	"regexp",
	"sort",
	"strconv",
	"strings",
	"time",
	"unicode/utf8",
}

// Evaluator keeps one interpreter across calls, so declarations made by one
// expression are visible to the next.
type Evaluator struct {
	mu       sync.Mutex
	interp   *interp.Interpreter
	packages []string
}

// New creates an evaluator exposing packages, or DefaultPackages when none are given.
// Every exposed package is imported up front.
func New(packages ...string) (*Evaluator, error) {
	if len(packages) == 0 {
		packages = DefaultPackages
	}

	i := interp.New(interp.Options{})
	if err := i.Use(allowedSymbols(packages)); err != nil {
		return nil, fmt.Errorf("failed to load stdlib symbols: %w", err)
	}

	for _, pkg := range packages {
		if _, err := i.Eval(fmt.Sprintf("import %q", pkg)); err != nil {
			return nil, fmt.Errorf("failed to import %s: %w", pkg, err)
		}
	}

	sorted := append([]string{}, packages...)
	sort.Strings(sorted)
	logger.Debug("Expression evaluator ready", "packages", sorted)

	return &Evaluator{interp: i, packages: sorted}, nil
}

// Packages lists the importable packages.
func (e *Evaluator) Packages() []string {
	return append([]string{}, e.packages...)
}

// Evaluate runs expr and returns its value, or nil for statements without one.
func (e *Evaluator) Evaluate(ctx context.Context, expr string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.interp.EvalWithContext(ctx, expr)
	if err != nil {
		logger.Debug("Expression failed", "expr", expr, "error", err)
		return nil, err
	}
	return unwrap(v), nil
}

func unwrap(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// allowedSymbols filters the yaegi stdlib export table down to packages.
// Keys have the form "import/path/name".
func allowedSymbols(packages []string) interp.Exports {
	allowed := make(map[string]bool, len(packages))
	for _, p := range packages {
		allowed[p] = true
	}

	out := interp.Exports{}
	for key, symbols := range stdlib.Symbols {
		slash := strings.LastIndex(key, "/")
		if slash < 0 {
			continue
		}
		if allowed[key[:slash]] {
			out[key] = symbols
		}
	}
	return out
}
