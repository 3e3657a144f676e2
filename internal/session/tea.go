// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/amiselected/internal/model"
)

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// ChangedMsg indicates the store changed. State is the latest snapshot.
type ChangedMsg struct {
	State model.State
}

// Watcher coalesces store notifications into a channel that a Bubble Tea
// program can wait on without blocking the mutating goroutine.
type Watcher struct {
	store  *Store
	ch     chan struct{}
	cancel func()
}

// Watch subscribes to the store. Notifications that arrive while one is
// already pending are merged.
func (s *Store) Watch() *Watcher {
	w := &Watcher{store: s, ch: make(chan struct{}, 1)}
	w.cancel = s.Subscribe(func(model.State) {
		select {
		case w.ch <- struct{}{}:
		default:
		}
	})
	return w
}

// Changes returns the notification channel.
func (w *Watcher) Changes() <-chan struct{} {
	return w.ch
}

// Wait returns a command that blocks until the next change and then
// delivers a ChangedMsg with a fresh snapshot.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		<-w.ch
		return ChangedMsg{State: w.store.Snapshot()}
	}
}

// Stop removes the subscription.
func (w *Watcher) Stop() {
	w.cancel()
}
