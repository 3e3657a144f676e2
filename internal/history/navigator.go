// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"sync"

	"github.com/jeranaias/amiselected/internal/model"
)

// Direction selects which way Recall moves.
type Direction int

const (
	Previous Direction = iota // toward older commands
	Next                      // toward newer commands
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

const noSelection = -1

// Navigator walks the user-entered commands of a history.
type Navigator struct {
	mu     sync.Mutex
	cursor int
}

// NewNavigator creates a navigator with no selection.
func NewNavigator() *Navigator {
	return &Navigator{cursor: noSelection}
}

// Commands extracts the user-entered command lines in chronological order.
func Commands(entries []model.HistoryEntry) []string {
	var cmds []string
	for _, e := range entries {
		if e.IsUserCommand() {
			cmds = append(cmds, e.Command)
		}
	}
	return cmds
}

// Recall moves the cursor and returns the input buffer value to install.
// ok is false when there are no commands. Next with no selection starts at
// the oldest command; moving Next past the newest clears the selection and
// returns an empty buffer.
func (n *Navigator) Recall(entries []model.HistoryEntry, dir Direction) (string, bool) {
	cmds := Commands(entries)
	if len(cmds) == 0 {
		n.Reset()
		return "", false
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	// The history may have shrunk since the last call.
	if n.cursor >= len(cmds) {
		n.cursor = noSelection
	}

	switch dir {
	case Previous:
		switch {
		case n.cursor == noSelection:
			n.cursor = len(cmds) - 1
		case n.cursor > 0:
			n.cursor--
		}
		return cmds[n.cursor], true

	case Next:
		if n.cursor < len(cmds)-1 {
			n.cursor++
			return cmds[n.cursor], true
		}
		n.cursor = noSelection
		return "", true
	}
	return "", false
}

// Reset clears the selection.
func (n *Navigator) Reset() {
	n.mu.Lock()
	n.cursor = noSelection
	n.mu.Unlock()
}
