// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the command vocabulary of an amiselected session.
//
// It parses raw input lines, routes them to handlers, and offers prefix
// completion over the vocabulary.
//
// # Key Types
//
//   - Registry: The fixed vocabulary with per-command handlers
//   - Parser: Normalizes a raw line and matches it to a command
//   - Dispatcher: Records the line and runs the matched handler
//   - Completer: Tab completion over command names
//
// # Built-in Commands
//
//   - help: Show available commands
//   - clear: Clear the terminal
//   - amiselected <email>: Check if an email is selected
//
// # Usage
//
//	d := commands.NewDispatcher(store, orchestrator)
//	if run := d.Dispatch("amiselected john@juitsolan.in"); run != nil {
//	    <-run.Done()
//	}
//
//	c := commands.NewCompleter(commands.NewRegistry())
//	name, ok := c.Complete("he") // "help", true
package commands
