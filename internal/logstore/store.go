// Package logstore implements the console's bounded log buffer.
// The store keeps entries in insertion order, evicts the oldest entry once the
// configured capacity is exceeded, and hands every subscriber the full snapshot
// after each change.
package logstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"devconsole/internal/logger"
	"devconsole/pkg/consoletypes"
)

// Store is the bounded, observable log buffer.
type Store struct {
	mu      sync.Mutex
	cfg     consoletypes.Config
	entries []consoletypes.LogEntry

	subs      []*subscription
	nextSubID uint64

	// pending holds committed snapshots awaiting delivery; draining is true
	// while one goroutine is delivering them.
	pending  []delivery
	draining bool

	newID  func() string
	now    func() time.Time
	locate SourceLocator
	sink   Sink
}

type subscription struct {
	id       uint64
	listener consoletypes.Listener
	once     sync.Once
	mu       sync.Mutex
	active   bool
}

type delivery struct {
	snapshot []consoletypes.LogEntry
	targets  []*subscription
}

// Option configures a Store at construction.
type Option func(*Store)

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSourceLocator installs the call-site capability. A nil locator disables
// source capture regardless of configuration.
func WithSourceLocator(locate SourceLocator) Option {
	return func(s *Store) {
		s.locate = locate
	}
}

// WithSink replaces the mirror sink.
func WithSink(sink Sink) Option {
	return func(s *Store) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithConfig sets the initial configuration.
func WithConfig(opts ...consoletypes.ConfigOption) Option {
	return func(s *Store) {
		for _, opt := range opts {
			opt(&s.cfg)
		}
	}
}

// New creates an empty store with the default configuration.
func New(opts ...Option) *Store {
	s := &Store{
		cfg:    consoletypes.DefaultConfig(),
		newID:  uuid.NewString,
		now:    time.Now,
		locate: CallerLocator(),
		sink:   DefaultSink(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure applies a partial configuration update. Shrinking the capacity
// below the current length evicts the oldest entries and notifies subscribers.
func (s *Store) Configure(opts ...consoletypes.ConfigOption) {
	s.mu.Lock()
	for _, opt := range opts {
		opt(&s.cfg)
	}
	trimmed := s.evictLocked()
	if trimmed > 0 {
		s.commitLocked()
	}
	s.mu.Unlock()

	if trimmed > 0 {
		logger.Debug("Log store capacity reduced", "evicted", trimmed)
		s.drain()
	}
}

// Config returns the current configuration.
func (s *Store) Config() consoletypes.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Emit records a new entry, evicting the oldest entries over capacity, and
// notifies subscribers with the resulting snapshot.
func (s *Store) Emit(level consoletypes.Level, message string, data consoletypes.Payload) consoletypes.LogEntry {
	cfg := s.Config()

	entry := consoletypes.LogEntry{
		ID:        s.newID(),
		Timestamp: s.now(),
		Level:     level,
		Message:   message,
		Data:      data,
	}
	if cfg.EnableSourceTracking {
		if src, ok := safeLocate(s.locate); ok {
			entry.Source = &src
		}
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.evictLocked()
	s.commitLocked()
	mirror := s.cfg.EnableConsoleOutput
	sink := s.sink
	s.mu.Unlock()

	if mirror {
		mirrorEntry(sink, entry)
	}
	s.drain()

	return entry
}

// All returns a copy of the entries in insertion order.
func (s *Store) All() []consoletypes.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of retained entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear removes every entry and notifies subscribers with an empty snapshot.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.commitLocked()
	s.mu.Unlock()

	s.drain()
}

// Subscribe registers listener and immediately delivers the current snapshot.
// The returned function removes the listener; calling it again does nothing.
func (s *Store) Subscribe(listener consoletypes.Listener) func() {
	if listener == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextSubID++
	sub := &subscription{id: s.nextSubID, listener: listener, active: true}
	s.subs = append(s.subs, sub)
	s.pending = append(s.pending, delivery{
		snapshot: s.snapshotLocked(),
		targets:  []*subscription{sub},
	})
	s.mu.Unlock()

	s.drain()

	return func() {
		sub.once.Do(func() {
			sub.mu.Lock()
			sub.active = false
			sub.mu.Unlock()
			s.removeSubscription(sub.id)
		})
	}
}

func (s *Store) removeSubscription(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// evictLocked drops the oldest entries over capacity and returns how many.
func (s *Store) evictLocked() int {
	over := len(s.entries) - s.cfg.MaxLogs
	if over <= 0 {
		return 0
	}
	n := copy(s.entries, s.entries[over:])
	clear(s.entries[n:])
	s.entries = s.entries[:n]
	return over
}

func (s *Store) snapshotLocked() []consoletypes.LogEntry {
	out := make([]consoletypes.LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// commitLocked queues the current snapshot for every current subscriber.
func (s *Store) commitLocked() {
	targets := make([]*subscription, len(s.subs))
	copy(targets, s.subs)
	s.pending = append(s.pending, delivery{snapshot: s.snapshotLocked(), targets: targets})
}

// drain delivers queued snapshots in commit order. Only one goroutine drains at
// a time; an emission made from inside a listener is queued and delivered by
// the draining goroutine once the current listener returns.
func (s *Store) drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.pending) > 0 {
		d := s.pending[0]
		s.pending[0] = delivery{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		for _, sub := range d.targets {
			sub.deliver(d.snapshot)
		}

		s.mu.Lock()
	}
	s.pending = nil
	s.draining = false
	s.mu.Unlock()
}

func (sub *subscription) deliver(snapshot []consoletypes.LogEntry) {
	sub.mu.Lock()
	active := sub.active
	sub.mu.Unlock()
	if !active {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Log subscriber panicked", "subscription", sub.id, "panic", r)
		}
	}()

	own := make([]consoletypes.LogEntry, len(snapshot))
	copy(own, snapshot)
	sub.listener(own)
}
