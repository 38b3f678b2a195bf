package consoletypes

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TracedError struct{ msg string }

func (e *TracedError) Error() string { return e.msg }
func (e *TracedError) Trace() string { return "main.go:12" }
func (e *TracedError) Extras() map[string]any {
	return map[string]any{"code": 42, "message": "ignored"}
}

func TestParseLevel(t *testing.T) {
	for _, level := range Levels {
		parsed, err := ParseLevel(string(level))
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	parsed, err := ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, parsed)

	_, err = ParseLevel("fatal")
	assert.Error(t, err)
}

func TestPayloadOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind PayloadKind
	}{
		{"nil", nil, PayloadNone},
		{"string", "hello", PayloadText},
		{"error", errors.New("boom"), PayloadFailure},
		{"map", map[string]int{"a": 1}, PayloadStructured},
		{"number", 3.5, PayloadStructured},
		{"payload passthrough", Text("x"), PayloadText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, PayloadOf(tt.in).Kind())
		})
	}
}

func TestPayload_Format(t *testing.T) {
	assert.Equal(t, "", Payload{}.Format(false))
	assert.Equal(t, "plain", Text("plain").Format(false))
	assert.Equal(t, "{\n  \"a\": 1\n}", Structured(map[string]int{"a": 1}).Format(false))

	// Channels cannot be marshalled; formatting falls back to fmt.
	ch := make(chan int)
	assert.Equal(t, fmt.Sprint(ch), Structured(ch).Format(false))
}

func TestPayload_FailureFields(t *testing.T) {
	p := FailureOf(&TracedError{msg: "request failed"})
	f, ok := p.Failure()
	require.True(t, ok)
	assert.Equal(t, "TracedError", f.Name)

	plain, _ := FailureOf(errors.New("plain")).Failure()
	assert.Equal(t, "Error", plain.Name)
	assert.Equal(t, "request failed", f.Message)
	assert.Equal(t, "main.go:12", f.Trace)

	var withTrace map[string]any
	require.NoError(t, json.Unmarshal([]byte(p.Format(false)), &withTrace))
	assert.Equal(t, "main.go:12", withTrace["stack"])
	assert.Equal(t, float64(42), withTrace["code"])
	// Extras never shadow the core fields.
	assert.Equal(t, "request failed", withTrace["message"])

	var withoutTrace map[string]any
	require.NoError(t, json.Unmarshal([]byte(p.Format(true)), &withoutTrace))
	assert.NotContains(t, withoutTrace, "stack")
}

func TestPayload_MarshalJSON(t *testing.T) {
	entry := struct {
		Data Payload `json:"data"`
	}{}

	b, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":null}`, string(b))

	entry.Data = Structured([]int{1, 2})
	b, err = json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[1,2]}`, string(b))

	entry.Data = FailureOf(errors.New("nope"))
	b, err = json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"nope"`)
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		value    Value
		text     string
		literal  string
		expected any
	}{
		{NumberValue(42), "42", "42", float64(42)},
		{NumberValue(1.5), "1.5", "1.5", 1.5},
		{NumberValue(-0.25), "-0.25", "-0.25", -0.25},
		{NumberValue(1e21), "1e+21", "1e+21", 1e21},
		{NumberValue(1e-7), "1e-7", "1e-7", 1e-7},
		{BoolValue(true), "true", "true", true},
		{StringValue("a b"), "a b", `"a b"`, "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.value.String())
			assert.Equal(t, tt.literal, tt.value.JSON())
			assert.Equal(t, tt.expected, tt.value.Interface())
		})
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1000, cfg.MaxLogs)
	assert.True(t, cfg.EnableConsoleOutput)
	assert.True(t, cfg.EnableSourceTracking)

	for _, opt := range []ConfigOption{WithMaxLogs(0), WithMaxLogs(-5)} {
		opt(&cfg)
	}
	assert.Equal(t, 1000, cfg.MaxLogs)

	WithMaxLogs(10)(&cfg)
	WithConsoleOutput(false)(&cfg)
	WithSourceTracking(false)(&cfg)
	assert.Equal(t, Config{MaxLogs: 10}, cfg)
}
