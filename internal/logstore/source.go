package logstore

import (
	"runtime"
	"strings"

	"devconsole/pkg/consoletypes"
)

// SourceLocator reports the call site of an emission, or false when unknown.
type SourceLocator func() (consoletypes.Source, bool)

// internalFrames are skipped by the default locator.
var internalFrames = []string{
	"devconsole/internal/logstore.(*Store).",
	"devconsole/internal/logstore.CallerLocator.",
	"devconsole/internal/logstore.safeLocate",
	"runtime.",
}

// CallerLocator returns a locator that walks the stack and reports the first
// frame outside the store and outside any of the extra function prefixes.
// Go does not expose columns, so Column is always zero.
func CallerLocator(skipPrefixes ...string) SourceLocator {
	skip := append(append([]string{}, internalFrames...), skipPrefixes...)

	return func() (consoletypes.Source, bool) {
		pcs := make([]uintptr, 32)
		n := runtime.Callers(2, pcs)
		if n == 0 {
			return consoletypes.Source{}, false
		}

		frames := runtime.CallersFrames(pcs[:n])
		for {
			frame, more := frames.Next()
			if frame.File != "" && !hasAnyPrefix(frame.Function, skip) {
				return consoletypes.Source{File: frame.File, Line: frame.Line}, true
			}
			if !more {
				return consoletypes.Source{}, false
			}
		}
	}
}

// safeLocate never lets a misbehaving locator break emission.
func safeLocate(locate SourceLocator) (src consoletypes.Source, ok bool) {
	if locate == nil {
		return consoletypes.Source{}, false
	}
	defer func() {
		if recover() != nil {
			src, ok = consoletypes.Source{}, false
		}
	}()
	return locate()
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
