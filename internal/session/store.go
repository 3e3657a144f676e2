// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the single source of truth for an interactive session.
package session

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/amiselected/internal/logging"
	"github.com/jeranaias/amiselected/internal/model"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// Listener receives a copy of the state after each mutation.
type Listener func(model.State)

// Store tracks session state and notifies subscribers of changes.
type Store struct {
	mu sync.Mutex
	// notifyMu keeps the mutation and its notification together so
	// listeners see changes in the order they were applied.
	notifyMu sync.Mutex

	sessionID string
	startTime time.Time
	now       func() time.Time

	state model.State

	listeners map[int]Listener
	nextID    int

	log *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSound sets the initial sound toggle.
func WithSound(enabled bool) Option {
	return func(s *Store) {
		s.state.SoundEnabled = enabled
	}
}

// WithNow overrides the time source used to stamp history entries.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger overrides the store logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// New creates a store holding the default session state.
func New(opts ...Option) *Store {
	s := &Store{
		sessionID: "sess_" + uuid.NewString(),
		startTime: time.Now(),
		now:       time.Now,
		state:     model.DefaultState(),
		listeners: make(map[int]Listener),
		log:       logging.ForComponent(logging.CompSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionID returns the session identifier.
func (s *Store) SessionID() string {
	return s.sessionID
}

// =============================================================================
// READ MODEL
// =============================================================================

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Processing reports whether a status check is in flight.
func (s *Store) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Processing
}

// History returns a copy of the history.
func (s *Store) History() []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.HistoryEntry(nil), s.state.History...)
}

func (s *Store) copyLocked() model.State {
	st := s.state
	st.History = make([]model.HistoryEntry, len(s.state.History))
	copy(st.History, s.state.History)
	return st
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription.
//
// Listeners run synchronously while the store serializes notifications.
// They may read the store (Snapshot, GetStatus) but must not call a
// mutator, which would deadlock; hand the work to another goroutine
// instead.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// mutate applies fn under the state lock and then notifies listeners with
// the resulting state. fn returns false to suppress the notification.
func (s *Store) mutate(fn func(st *model.State) bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	snap := s.copyLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	// Execute callbacks outside the state lock
	for _, l := range listeners {
		l(snap)
	}
}

// =============================================================================
// MUTATORS
// =============================================================================

// AppendEntry appends a history entry and returns it.
func (s *Store) AppendEntry(command string, output model.Output) model.HistoryEntry {
	entry := model.NewEntryAt(command, output, s.now())
	s.mutate(func(st *model.State) bool {
		st.History = append(st.History, entry)
		return true
	})
	return entry
}

// ClearHistory replaces the history with an empty sequence. Input,
// processing flag and agent status are untouched.
func (s *Store) ClearHistory() {
	s.mutate(func(st *model.State) bool {
		st.History = make([]model.HistoryEntry, 0)
		return true
	})
	s.log.Debug("history cleared")
}

// SetInput replaces the input buffer.
func (s *Store) SetInput(input string) {
	s.mutate(func(st *model.State) bool {
		if st.Input == input {
			return false
		}
		st.Input = input
		return true
	})
}

// BeginRun marks a status check as in flight and activates the agent with
// the given status. It returns false, changing nothing, if a run is
// already in flight.
func (s *Store) BeginRun(status model.AgentStatus) bool {
	started := false
	s.mutate(func(st *model.State) bool {
		if st.Processing {
			return false
		}
		st.Processing = true
		status.Active = true
		st.Agent = status
		started = true
		return true
	})
	return started
}

// EndRun deactivates the agent, clears the processing flag and appends
// the result entry as a single change.
func (s *Store) EndRun(result model.Output) model.HistoryEntry {
	entry := model.NewEntryAt("", result, s.now())
	s.mutate(func(st *model.State) bool {
		st.Agent.Active = false
		st.Processing = false
		st.History = append(st.History, entry)
		return true
	})
	return entry
}

// SetAgentStatus replaces the agent status.
func (s *Store) SetAgentStatus(status model.AgentStatus) {
	s.mutate(func(st *model.State) bool {
		st.Agent = status
		return true
	})
}

// UpdateAgent edits the agent status in place.
func (s *Store) UpdateAgent(fn func(*model.AgentStatus)) {
	s.mutate(func(st *model.State) bool {
		fn(&st.Agent)
		return true
	})
}

// ToggleSound flips the sound toggle and returns the new value.
func (s *Store) ToggleSound() bool {
	var enabled bool
	s.mutate(func(st *model.State) bool {
		st.SoundEnabled = !st.SoundEnabled
		enabled = st.SoundEnabled
		return true
	})
	return enabled
}

// SetSound sets the sound toggle.
func (s *Store) SetSound(enabled bool) {
	s.mutate(func(st *model.State) bool {
		if st.SoundEnabled == enabled {
			return false
		}
		st.SoundEnabled = enabled
		return true
	})
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status summarizes the session.
type Status struct {
	SessionID  string
	StartTime  time.Time
	Duration   time.Duration
	Entries    int
	Commands   int
	Processing bool
}

// GetStatus returns the current session status.
func (s *Store) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	commands := 0
	for _, e := range s.state.History {
		if e.IsUserCommand() {
			commands++
		}
	}
	return Status{
		SessionID:  s.sessionID,
		StartTime:  s.startTime,
		Duration:   time.Since(s.startTime),
		Entries:    len(s.state.History),
		Commands:   commands,
		Processing: s.state.Processing,
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return strconv.Itoa(int(d.Seconds())) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}
