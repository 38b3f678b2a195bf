package evaluator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := New()
	require.NoError(t, err)
	return e
}

func TestEvaluate_Arithmetic(t *testing.T) {
	e := newEvaluator(t)

	v, err := e.Evaluate(context.Background(), "6 * 7")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestEvaluate_StdlibPackages(t *testing.T) {
	e := newEvaluator(t)

	v, err := e.Evaluate(context.Background(), `strings.ToUpper("dev")`)
	require.NoError(t, err)
	assert.Equal(t, "DEV", v)

	v, err = e.Evaluate(context.Background(), `math.Sqrt(16)`)
	require.NoError(t, err)
	assert.Equal(t, float64(4), v)
}

func TestEvaluate_StatePersists(t *testing.T) {
	e := newEvaluator(t)

	_, err := e.Evaluate(context.Background(), "x := 20")
	require.NoError(t, err)

	v, err := e.Evaluate(context.Background(), "x + 1")
	require.NoError(t, err)
	assert.Equal(t, 21, v)
}

func TestEvaluate_Errors(t *testing.T) {
	e := newEvaluator(t)

	_, err := e.Evaluate(context.Background(), "undefinedThing + 1")
	assert.Error(t, err)

	_, err = e.Evaluate(context.Background(), `import "os"`)
	assert.Error(t, err, "os is not exposed")
}

func TestAllowedSymbols(t *testing.T) {
	symbols := allowedSymbols([]string{"strings", "encoding/json"})

	assert.Contains(t, symbols, "strings/strings")
	assert.Contains(t, symbols, "encoding/json/json")
	assert.NotContains(t, symbols, "os/os")
	assert.NotContains(t, symbols, "net/http/http")
}

func TestPackages(t *testing.T) {
	e, err := New("strings", "fmt")
	require.NoError(t, err)
	assert.Equal(t, []string{"fmt", "strings"}, e.Packages())
}
