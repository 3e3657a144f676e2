// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal is the Bubble Tea front end of a selection session.
//
// The model owns no session state of its own. Keystrokes are forwarded to
// an engine.Engine and every store change arrives back as a
// session.ChangedMsg, from which the scrollback, the agent overlay line and
// the input line are re-rendered.
package terminal
