// Package testutils provides deterministic generators for devconsole tests.
// Ids keep the UUID shape and timestamps keep increasing, so code under test
// sees production-like values.
package testutils

import (
	"fmt"
	"sync"
	"time"
)

// BaseTime is the first instant returned by a fresh Clock.
var BaseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// IDSequence generates UUID-shaped ids in order:
// 00000001-0000-4000-8000-000000000001, 00000002-..., and so on.
type IDSequence struct {
	mu      sync.Mutex
	counter uint64
}

// NewIDSequence creates a sequence starting at 1.
func NewIDSequence() *IDSequence {
	return &IDSequence{}
}

// Next returns the next id.
func (s *IDSequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return fmt.Sprintf("%08d-0000-4000-8000-%012d", s.counter, s.counter)
}

// Clock returns BaseTime plus one second per call.
type Clock struct {
	mu    sync.Mutex
	ticks int64
}

// NewClock creates a clock positioned at BaseTime.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the next instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := BaseTime.Add(time.Duration(c.ticks) * time.Second)
	c.ticks++
	return t
}
