//go:build !nodevconsole

package console

import "devconsole/pkg/consoletypes"

// Enabled reports whether this build carries the live console.
const Enabled = true

// NewDefault returns the live console. Builds tagged nodevconsole get Disabled.
func NewDefault(opts ...Option) consoletypes.Console {
	return New(opts...)
}
