// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the session engine
// and its presentation layers.
//
// # Key Types
//
//   - HistoryEntry: One immutable scrollback record (command, output, timestamp)
//   - Output: Tagged output payload (plain text, stage marker, or result)
//   - ResultKind: Terminal outcome of a status check (success, failure, error)
//   - AgentStatus: Observational progress descriptor for an in-flight check
//   - State: Read model of the whole session
//
// # Usage
//
// Build entries with the payload constructors:
//
//	entry := model.NewEntry("help", model.PlainText("Available commands: ..."))
//	if entry.Output.Kind == model.KindResult && entry.Output.Result == model.ResultSuccess {
//	    // render the success panel
//	}
//
// Output values never carry rendering objects; presentation layers map each
// Kind to their own visual form.
package model
