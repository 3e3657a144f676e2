// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history implements previous/next recall of commands the user
// entered, in the manner of a shell's up and down arrows.
//
// The Navigator keeps only a cursor. The candidate list is rebuilt from the
// history on every call, so clearing or appending to the history never
// leaves it pointing at stale data for longer than one step.
package history
