// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"log/slog"

	"github.com/jeranaias/amiselected/internal/logging"
	"github.com/jeranaias/amiselected/internal/model"
	"github.com/jeranaias/amiselected/internal/scan"
)

// Dispatcher interprets input lines against a session store.
type Dispatcher struct {
	registry *Registry
	parser   *Parser
	store    Store
	scanner  Starter
	help     string
	log      *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithRegistry replaces the built-in vocabulary.
func WithRegistry(r *Registry) DispatcherOption {
	return func(d *Dispatcher) {
		d.registry = r
	}
}

// WithDispatchLogger overrides the dispatcher logger.
func WithDispatchLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// NewDispatcher creates a dispatcher writing to store and starting status
// checks with scanner.
func NewDispatcher(store Store, scanner Starter, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		store:    store,
		scanner:  scanner,
		log:      logging.ForComponent(logging.CompDispatch),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.parser = NewParser(d.registry)
	d.help = HelpText(d.registry)
	return d
}

// Registry returns the vocabulary in use.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch records line and executes it. Blank lines are ignored. It
// returns the status check run the line started, or nil.
func (d *Dispatcher) Dispatch(line string) *scan.Run {
	res := d.parser.Parse(line)
	if res.IsEmpty() {
		return nil
	}

	d.store.AppendEntry(line, model.NoOutput())

	if res.Command == nil {
		d.log.Debug("unknown command")
		d.store.AppendEntry("", model.PlainText(NotFoundMessage(res.Normalized)))
		return nil
	}

	d.log.Debug("dispatch", "command", res.Command.Name)
	ctx := &Context{
		Store:   d.store,
		Scanner: d.scanner,
		Parse:   res,
		Help:    d.help,
		Log:     d.log,
	}
	return res.Command.Handler(ctx)
}
