// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the single source of truth for an interactive
// session: input buffer, scrollback history, processing flag, agent status
// overlay, and the sound toggle.
//
// # Key Types
//
//   - Store: Mutex-guarded session state with narrow mutators
//   - Listener: Callback notified with a State copy after every mutation
//   - ChangedMsg: Bubble Tea message delivered when the store changes
//
// # Usage
//
//	store := session.New()
//	cancel := store.Subscribe(func(s model.State) {
//	    render(s)
//	})
//	defer cancel()
//
//	store.AppendEntry("help", model.NoOutput())
//
// # Concurrency
//
// Mutations are serialized and listeners observe them in order. Listeners
// run synchronously on the mutating goroutine and must not call mutators
// on the same store.
package session
