// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"time"

	"github.com/jeranaias/amiselected/internal/commands"
	"github.com/jeranaias/amiselected/internal/history"
	"github.com/jeranaias/amiselected/internal/lookup"
	"github.com/jeranaias/amiselected/internal/model"
	"github.com/jeranaias/amiselected/internal/scan"
	"github.com/jeranaias/amiselected/internal/session"
)

// Engine is one interactive session.
type Engine struct {
	store      *session.Store
	orch       *scan.Orchestrator
	dispatcher *commands.Dispatcher
	navigator  *history.Navigator
	completer  *commands.Completer
}

type options struct {
	storeOpts []session.Option
	scanOpts  []scan.Option
}

// Option configures an Engine.
type Option func(*options)

// WithDelays sets the processing, checking and analyzing delays.
func WithDelays(d [3]time.Duration) Option {
	return func(o *options) {
		o.scanOpts = append(o.scanOpts, scan.WithDelays(scan.DelaysFrom(d)))
	}
}

// WithClock sets the clock used for stage delays.
func WithClock(c scan.Clock) Option {
	return func(o *options) {
		o.scanOpts = append(o.scanOpts, scan.WithClock(c))
	}
}

// WithSound sets the initial sound toggle.
func WithSound(enabled bool) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, session.WithSound(enabled))
	}
}

// WithStageHook observes stage completions.
func WithStageHook(fn func(run *scan.Run, stage scan.Stage)) Option {
	return func(o *options) {
		o.scanOpts = append(o.scanOpts, scan.WithStageHook(fn))
	}
}

// New creates a session that checks identifiers against svc.
func New(svc lookup.Service, opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store := session.New(o.storeOpts...)
	orch := scan.New(store, svc, o.scanOpts...)
	registry := commands.NewRegistry()
	return &Engine{
		store:      store,
		orch:       orch,
		dispatcher: commands.NewDispatcher(store, orch, commands.WithRegistry(registry)),
		navigator:  history.NewNavigator(),
		completer:  commands.NewCompleter(registry),
	}
}

// Store returns the session store.
func (e *Engine) Store() *session.Store {
	return e.store
}

// State returns a snapshot of the session.
func (e *Engine) State() model.State {
	return e.store.Snapshot()
}

// Dispatch interprets one line. It returns the status check it started, if any.
func (e *Engine) Dispatch(line string) *scan.Run {
	return e.dispatcher.Dispatch(line)
}

// Submit dispatches the line, clears the input buffer and resets history
// navigation, the way pressing Enter does.
func (e *Engine) Submit(line string) *scan.Run {
	run := e.dispatcher.Dispatch(line)
	e.store.SetInput("")
	e.navigator.Reset()
	return run
}

// Recall moves through previously entered commands and installs the
// result in the input buffer.
func (e *Engine) Recall(dir history.Direction) (string, bool) {
	text, ok := e.navigator.Recall(e.store.History(), dir)
	if ok {
		e.store.SetInput(text)
	}
	return text, ok
}

// Complete completes the current input buffer to a unique command name.
func (e *Engine) Complete() (string, bool) {
	name, ok := e.completer.Complete(e.store.Snapshot().Input)
	if ok {
		e.store.SetInput(name)
	}
	return name, ok
}

// Completer returns the command completer.
func (e *Engine) Completer() *commands.Completer {
	return e.completer
}

// SetInput replaces the input buffer.
func (e *Engine) SetInput(s string) {
	e.store.SetInput(s)
}

// ClearHistory empties the history without recording a command.
func (e *Engine) ClearHistory() {
	e.store.ClearHistory()
	e.navigator.Reset()
}

// ToggleSound flips the sound toggle.
func (e *Engine) ToggleSound() bool {
	return e.store.ToggleSound()
}
