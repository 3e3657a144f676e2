// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires configuration, logging and the lookup backend into the
// amiselected commands.
//
// # Commands
//
//   - (none): full-screen terminal when stdin is a TTY, line mode otherwise
//   - repl: line mode with history and Tab completion
//   - check <email>: one status check, exit status reports the verdict
//   - roster add|remove|list|import: manage the selected_students table
//   - config show|init|get|set|path: inspect and edit config.toml
//   - version: print build information
//
// Every command accepts --config to point at a config file other than
// ~/.amiselected/config.toml.
package cli
