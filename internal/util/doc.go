// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the amiselected packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: Display-width-aware truncation with ellipsis
//   - PadRight: Pad to a display width
//   - StringWidth: Terminal cell width of a string
//
// File Operations:
//   - AtomicWriteFileWithDir: Crash-safe file writing with fsync
package util
