// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"testing"

	"github.com/jeranaias/amiselected/internal/model"
)

func entries(lines ...string) []model.HistoryEntry {
	var out []model.HistoryEntry
	for _, l := range lines {
		out = append(out, model.NewEntry(l, model.NoOutput()))
		// Interleave system output the way a session does
		out = append(out, model.NewEntry("", model.PlainText("output of "+l)))
	}
	return out
}

type step struct {
	dir    Direction
	want   string
	wantOK bool
}

func TestRecall(t *testing.T) {
	tests := []struct {
		name    string
		history []model.HistoryEntry
		steps   []step
	}{
		{
			name:    "help then clear",
			history: entries("help", "clear"),
			steps: []step{
				{Previous, "clear", true},
				{Previous, "help", true},
				{Previous, "help", true}, // clamped at the oldest
				{Next, "clear", true},
				{Next, "", true}, // past the newest: cursor reset
				{Previous, "clear", true},
			},
		},
		{
			name:    "next from no selection",
			history: entries("help", "clear"),
			steps: []step{
				{Next, "help", true}, // starts at the oldest
				{Next, "clear", true},
				{Next, "", true},
				{Next, "help", true},
				{Previous, "help", true},
			},
		},
		{
			name:    "empty history",
			history: nil,
			steps: []step{
				{Previous, "", false},
				{Next, "", false},
			},
		},
		{
			name:    "system entries only",
			history: []model.HistoryEntry{model.NewEntry("", model.StageMarker("checking..."))},
			steps: []step{
				{Previous, "", false},
			},
		},
		{
			name:    "original case kept",
			history: entries("AmISelected John@X.in"),
			steps: []step{
				{Previous, "AmISelected John@X.in", true},
				{Next, "", true},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := NewNavigator()
			for i, s := range tc.steps {
				got, ok := n.Recall(tc.history, s.dir)
				if got != s.want || ok != s.wantOK {
					t.Errorf("step %d (%s): got (%q, %v), want (%q, %v)", i, s.dir, got, ok, s.want, s.wantOK)
				}
			}
		})
	}
}

func TestRecallAfterHistoryShrinks(t *testing.T) {
	n := NewNavigator()
	long := entries("a", "b", "c")
	n.Recall(long, Previous)
	n.Recall(long, Previous) // cursor on "b", out of range for a single command

	got, ok := n.Recall(entries("x"), Previous)
	if got != "x" || !ok {
		t.Errorf("got (%q, %v), want (\"x\", true)", got, ok)
	}
}

func TestReset(t *testing.T) {
	n := NewNavigator()
	h := entries("help", "clear")
	n.Recall(h, Previous)
	n.Recall(h, Previous)
	n.Reset()

	if got, _ := n.Recall(h, Previous); got != "clear" {
		t.Errorf("after Reset, Previous = %q, want newest command", got)
	}
}

func TestCommands(t *testing.T) {
	got := Commands(entries("help", "zz"))
	if len(got) != 2 || got[0] != "help" || got[1] != "zz" {
		t.Errorf("Commands() = %v", got)
	}
}
