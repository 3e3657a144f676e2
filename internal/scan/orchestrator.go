// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/amiselected/internal/logging"
	"github.com/jeranaias/amiselected/internal/lookup"
	"github.com/jeranaias/amiselected/internal/model"
)

// ErrBusy is returned by Start while another run is in flight.
var ErrBusy = errors.New("scan: a status check is already in progress")

// Store is the part of the session store a run mutates.
type Store interface {
	BeginRun(status model.AgentStatus) bool
	EndRun(result model.Output) model.HistoryEntry
	UpdateAgent(fn func(*model.AgentStatus))
	AppendEntry(command string, output model.Output) model.HistoryEntry
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator starts status check runs against a session store.
type Orchestrator struct {
	store  Store
	lookup lookup.Service
	clock  Clock
	delays Delays
	log    *slog.Logger
	hook   func(run *Run, stage Stage)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock used for stage delays.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithDelays sets the stage delays.
func WithDelays(d Delays) Option {
	return func(o *Orchestrator) {
		o.delays = d
	}
}

// WithLogger overrides the orchestrator logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// WithStageHook registers fn to be called as each stage completes.
func WithStageHook(fn func(run *Run, stage Stage)) Option {
	return func(o *Orchestrator) {
		o.hook = fn
	}
}

// New creates an orchestrator. A nil svc fails every lookup with
// lookup.ErrNotConfigured.
func New(store Store, svc lookup.Service, opts ...Option) *Orchestrator {
	if svc == nil {
		svc = lookup.Func(func(context.Context, string) (bool, error) {
			return false, lookup.ErrNotConfigured
		})
	}
	o := &Orchestrator{
		store:  store,
		lookup: svc,
		clock:  RealClock(),
		delays: DefaultDelays(),
		log:    logging.ForComponent(logging.CompScan),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start performs the Enter stage and runs the rest of the sequence in the
// background. identifier is passed to the lookup unchanged.
func (o *Orchestrator) Start(identifier string) (*Run, error) {
	enter := model.AgentStatus{
		Active:   true,
		Message:  AgentInitiating,
		Position: PositionStart,
	}
	if !o.store.BeginRun(enter) {
		o.log.Warn("status check refused", "reason", "busy")
		return nil, ErrBusy
	}

	run := &Run{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Started:    time.Now(),
		done:       make(chan struct{}),
	}
	o.log.Info("status check started", "run", run.ID, "pacing", o.delays.Total())
	o.log.Debug("status check identifier", "run", run.ID, "identifier", identifier)
	o.notify(run, StageEnter)

	go o.drive(run)
	return run, nil
}

// drive steps through the stages until the run is idle again.
func (o *Orchestrator) drive(run *Run) {
	var outcome model.Output
	stage := StageProcessing
	for stage != StageIdle {
		o.log.Debug("stage", "run", run.ID, "stage", stage.String())
		stage = o.step(run, stage, &outcome)
	}
}

func (o *Orchestrator) step(run *Run, stage Stage, outcome *model.Output) Stage {
	switch stage {
	case StageProcessing:
		<-o.clock.After(o.delays.Processing)
		o.store.AppendEntry("", model.StageMarker(MarkerProcessing))
		o.notify(run, stage)
		return StageChecking

	case StageChecking:
		<-o.clock.After(o.delays.Checking)
		o.store.UpdateAgent(func(a *model.AgentStatus) {
			a.Message = AgentAccessing
		})
		o.store.AppendEntry("", model.StageMarker(MarkerChecking))
		o.notify(run, stage)
		return StageAnalyzing

	case StageAnalyzing:
		<-o.clock.After(o.delays.Analyzing)
		o.store.UpdateAgent(func(a *model.AgentStatus) {
			a.Message = AgentAnalyzing
			a.Position = PositionAnalyzer
		})
		o.store.AppendEntry("", model.StageMarker(MarkerAnalyzing))
		o.notify(run, stage)
		return StageLookup

	case StageLookup:
		*outcome = o.check(run)
		o.notify(run, stage)
		return StageExit

	case StageExit:
		o.store.EndRun(*outcome)
		run.finish(*outcome)
		o.log.Info("status check finished",
			"run", run.ID,
			"outcome", outcome.Result.String(),
			"duration_ms", time.Since(run.Started).Milliseconds())
		o.notify(run, stage)
		return StageIdle

	default:
		// Unknown stages still have to release the session.
		*outcome = model.Error(FallbackError)
		return StageExit
	}
}

// check calls the lookup once and maps the answer to a result payload.
// A panicking lookup counts as a failed one.
func (o *Orchestrator) check(run *Run) (out model.Output) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("lookup panicked", "run", run.ID, "panic", fmt.Sprint(r))
			out = model.Error(FallbackError)
		}
	}()

	selected, err := o.lookup.Check(context.Background(), run.Identifier)
	if err != nil {
		o.log.Warn("lookup failed", "run", run.ID, "error", err)
		msg := err.Error()
		if msg == "" {
			msg = FallbackError
		}
		return model.Error(msg)
	}
	if selected {
		return model.Success()
	}
	return model.Failure()
}

func (o *Orchestrator) notify(run *Run, stage Stage) {
	if o.hook != nil {
		o.hook(run, stage)
	}
}
