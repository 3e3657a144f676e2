// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the session engine.
package model

// Position is a screen location expressed as fractions of the viewport
// (0,0 is top-left, 1,1 is bottom-right).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AgentStatus narrates an in-flight status check. It has no effect on
// control flow.
type AgentStatus struct {
	Active   bool     `json:"active"`
	Message  string   `json:"message"`
	Position Position `json:"position"`
}

// State is the read model of a session. History is a copy; mutating it
// does not affect the store it came from.
type State struct {
	Input        string         `json:"input"`
	History      []HistoryEntry `json:"history"`
	Processing   bool           `json:"processing"`
	Agent        AgentStatus    `json:"agent"`
	SoundEnabled bool           `json:"sound_enabled"`
}

// DefaultState returns the state a session starts in.
func DefaultState() State {
	return State{
		History:      make([]HistoryEntry, 0),
		SoundEnabled: true,
	}
}

// LastEntry returns the most recent history entry, if any.
func (s State) LastEntry() (HistoryEntry, bool) {
	if len(s.History) == 0 {
		return HistoryEntry{}, false
	}
	return s.History[len(s.History)-1], true
}
