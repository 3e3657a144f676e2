// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the session engine.
package model

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one scrollback record. Command is the literal line the
// user typed, or empty for system-generated lines.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Output    Output    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry creates an entry stamped with the current time.
func NewEntry(command string, output Output) HistoryEntry {
	return NewEntryAt(command, output, time.Now())
}

// NewEntryAt creates an entry with an explicit timestamp.
func NewEntryAt(command string, output Output, at time.Time) HistoryEntry {
	return HistoryEntry{
		ID:        uuid.NewString(),
		Command:   command,
		Output:    output,
		Timestamp: at,
	}
}

// IsUserCommand returns true if the entry echoes something the user typed.
func (e HistoryEntry) IsUserCommand() bool {
	return e.Command != ""
}
