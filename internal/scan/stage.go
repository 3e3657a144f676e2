// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scan

import (
	"time"

	"github.com/jeranaias/amiselected/internal/model"
)

// Stage is one step of a status check run.
type Stage int

const (
	StageIdle Stage = iota
	StageEnter
	StageProcessing
	StageChecking
	StageAnalyzing
	StageLookup
	StageExit
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageEnter:
		return "enter"
	case StageProcessing:
		return "processing"
	case StageChecking:
		return "checking"
	case StageAnalyzing:
		return "analyzing"
	case StageLookup:
		return "lookup"
	case StageExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Stage markers appended to the history.
const (
	MarkerProcessing = "processing..."
	MarkerChecking   = "checking..."
	MarkerAnalyzing  = "trying to check if you have good tastes in snack..."
)

// Agent narration.
const (
	AgentInitiating = "Initiating scan..."
	AgentAccessing  = "Accessing database..."
	AgentAnalyzing  = "Analyzing snack preferences..."
)

// FallbackError is reported when a lookup fails without a usable message.
const FallbackError = "Network error occurred"

// Agent positions as fractions of the viewport.
var (
	PositionStart    = model.Position{X: 0.3, Y: 0.3}
	PositionAnalyzer = model.Position{X: 0.7, Y: 0.4}
)

// Delays are the waits before each marker stage.
type Delays struct {
	Processing time.Duration
	Checking   time.Duration
	Analyzing  time.Duration
}

// DefaultDelays returns the standard stage pacing.
func DefaultDelays() Delays {
	return Delays{
		Processing: 1000 * time.Millisecond,
		Checking:   800 * time.Millisecond,
		Analyzing:  1000 * time.Millisecond,
	}
}

// DelaysFrom converts a processing/checking/analyzing triple.
func DelaysFrom(d [3]time.Duration) Delays {
	return Delays{Processing: d[0], Checking: d[1], Analyzing: d[2]}
}

// Total returns the time spent waiting before the lookup.
func (d Delays) Total() time.Duration {
	return d.Processing + d.Checking + d.Analyzing
}

// =============================================================================
// CLOCK
// =============================================================================

// Clock provides the stage suspensions.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}
