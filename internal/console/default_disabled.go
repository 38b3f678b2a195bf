//go:build nodevconsole

package console

import "devconsole/pkg/consoletypes"

// Enabled reports whether this build carries the live console.
const Enabled = false

// NewDefault returns the disabled console in builds tagged nodevconsole.
func NewDefault(...Option) consoletypes.Console {
	return Disabled{}
}
