// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for the amiselected terminal.
//
// Colors are Lip Gloss AdaptiveColor values so they read on both light and
// dark terminals. Theme detects the terminal's color profile and background
// with termenv and builds the styles used by the terminal view.
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.Theme)
//	line := theme.Prompt.Render(prompt) + " " + theme.Command.Render(cmd)
package styles
