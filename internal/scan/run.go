// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scan

import (
	"sync"
	"time"

	"github.com/jeranaias/amiselected/internal/model"
)

// Run is a handle to one status check.
type Run struct {
	ID         string
	Identifier string
	Started    time.Time

	mu      sync.Mutex
	outcome model.Output
	ended   time.Time
	done    chan struct{}
}

func (r *Run) finish(outcome model.Output) {
	r.mu.Lock()
	r.outcome = outcome
	r.ended = time.Now()
	r.mu.Unlock()
	close(r.done)
}

// Done is closed once the Exit stage has run.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes and returns its result payload.
func (r *Run) Wait() model.Output {
	<-r.done
	out, _ := r.Outcome()
	return out
}

// Outcome returns the result payload, or false if the run is still in
// flight.
func (r *Run) Outcome() (model.Output, bool) {
	select {
	case <-r.done:
	default:
		return model.Output{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome, true
}

// Duration returns how long the run took, or has taken so far.
func (r *Run) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended.IsZero() {
		return time.Since(r.Started)
	}
	return r.ended.Sub(r.Started)
}
