package consoletypes

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"unicode"
)

// PayloadKind tags the variant held by a Payload.
type PayloadKind int

const (
	// PayloadNone means the entry carries no data.
	PayloadNone PayloadKind = iota
	// PayloadText is a plain string.
	PayloadText
	// PayloadStructured is an arbitrary JSON-serialisable value.
	PayloadStructured
	// PayloadFailure describes an error value.
	PayloadFailure
)

// Failure is the error-like payload variant.
type Failure struct {
	Name    string         `json:"name"`
	Message string         `json:"message"`
	Trace   string         `json:"stack,omitempty"`
	Extra   map[string]any `json:"-"`
}

// Payload is the closed variant carried by a log entry: Text, Structured or Failure.
// The zero value is an empty payload.
type Payload struct {
	kind    PayloadKind
	text    string
	value   any
	failure *Failure
}

// Text wraps a string payload.
func Text(s string) Payload {
	return Payload{kind: PayloadText, text: s}
}

// Structured wraps an arbitrary value.
func Structured(v any) Payload {
	return Payload{kind: PayloadStructured, value: v}
}

// FailureOf converts an error into a Failure payload.
// Errors implementing Extras() contribute additional fields.
func FailureOf(err error) Payload {
	if err == nil {
		return Payload{}
	}
	f := &Failure{
		Name:    errorName(err),
		Message: err.Error(),
	}
	var traced interface{ Trace() string }
	if errors.As(err, &traced) {
		f.Trace = traced.Trace()
	}
	var extras interface{ Extras() map[string]any }
	if errors.As(err, &extras) {
		f.Extra = extras.Extras()
	}
	return Payload{kind: PayloadFailure, failure: f}
}

// NewFailure builds a Failure payload from its parts.
func NewFailure(name, message, trace string) Payload {
	return Payload{kind: PayloadFailure, failure: &Failure{Name: name, Message: message, Trace: trace}}
}

// PayloadOf is the only place where dynamic values are classified into a variant.
func PayloadOf(v any) Payload {
	switch x := v.(type) {
	case nil:
		return Payload{}
	case Payload:
		return x
	case string:
		return Text(x)
	case error:
		return FailureOf(x)
	default:
		return Structured(x)
	}
}

// Kind returns the variant tag.
func (p Payload) Kind() PayloadKind {
	return p.kind
}

// Text returns the string of a Text payload.
func (p Payload) Text() (string, bool) {
	return p.text, p.kind == PayloadText
}

// Value returns the value of a Structured payload.
func (p Payload) Value() (any, bool) {
	return p.value, p.kind == PayloadStructured
}

// Failure returns the failure details of a Failure payload.
func (p Payload) Failure() (Failure, bool) {
	if p.kind != PayloadFailure || p.failure == nil {
		return Failure{}, false
	}
	return *p.failure, true
}

// Format renders the payload for display. Text is returned verbatim; structured
// values and failures are rendered as indented JSON. excludeTrace drops the
// failure trace, which is what clipboard copies want.
func (p Payload) Format(excludeTrace bool) string {
	switch p.kind {
	case PayloadText:
		return p.text
	case PayloadStructured:
		b, err := json.MarshalIndent(p.value, "", "  ")
		if err != nil {
			return fmt.Sprint(p.value)
		}
		return string(b)
	case PayloadFailure:
		b, err := json.MarshalIndent(p.failureFields(excludeTrace), "", "  ")
		if err != nil {
			return p.failure.Message
		}
		return string(b)
	default:
		return ""
	}
}

// MarshalJSON encodes the payload as its natural JSON form, or null when empty.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case PayloadText:
		return json.Marshal(p.text)
	case PayloadStructured:
		b, err := json.Marshal(p.value)
		if err != nil {
			return json.Marshal(fmt.Sprint(p.value))
		}
		return b, nil
	case PayloadFailure:
		return json.Marshal(p.failureFields(false))
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML mirrors MarshalJSON for YAML encoders.
func (p Payload) MarshalYAML() (interface{}, error) {
	switch p.kind {
	case PayloadText:
		return p.text, nil
	case PayloadStructured:
		return p.value, nil
	case PayloadFailure:
		return p.failureFields(false), nil
	default:
		return nil, nil
	}
}

// failureFields flattens a failure into an ordered-insensitive map including extras.
func (p Payload) failureFields(excludeTrace bool) map[string]any {
	fields := map[string]any{
		"name":    p.failure.Name,
		"message": p.failure.Message,
	}
	if !excludeTrace && p.failure.Trace != "" {
		fields["stack"] = p.failure.Trace
	}
	for k, v := range p.failure.Extra {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}
	return fields
}

// errorName is the exported dynamic type name of err, or "Error" for
// unnamed and unexported types such as those behind errors.New.
func errorName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" || !unicode.IsUpper([]rune(name)[0]) {
		return "Error"
	}
	return name
}
