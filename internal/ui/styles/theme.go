// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components of the terminal view.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Scrollback
	Prompt      lipgloss.Style
	Command     lipgloss.Style
	Output      lipgloss.Style
	StageMarker lipgloss.Style

	// Result panels
	SuccessBox   lipgloss.Style
	FailureBox   lipgloss.Style
	ErrorBox     lipgloss.Style
	PanelTitle   lipgloss.Style
	LinkStyle    lipgloss.Style

	// Agent overlay
	Agent        lipgloss.Style
	AgentSpinner lipgloss.Style

	// Footer
	Footer       lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Separator    lipgloss.Style
}

// NewTheme creates a theme. mode is "auto", "dark" or "light"; auto asks
// the terminal for its background.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Prompt = lipgloss.NewStyle().Bold(true).Foreground(Phosphor)
	t.Command = lipgloss.NewStyle().Foreground(Phosphor)
	t.Output = lipgloss.NewStyle().Foreground(PhosphorDim)
	t.StageMarker = lipgloss.NewStyle().Italic(true).Foreground(Cyan)

	panel := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 2).
		MarginTop(1)
	t.SuccessBox = panel.BorderForeground(Emerald).Foreground(Emerald)
	t.FailureBox = panel.BorderForeground(Amber).Foreground(Amber)
	t.ErrorBox = panel.BorderStyle(lipgloss.DoubleBorder()).BorderForeground(Rose).Foreground(Rose)
	t.PanelTitle = lipgloss.NewStyle().Bold(true)
	t.LinkStyle = lipgloss.NewStyle().Foreground(Link).Underline(true)

	t.Agent = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Padding(0, 1)
	t.AgentSpinner = lipgloss.NewStyle().Bold(true).Foreground(Cyan)

	t.Footer = lipgloss.NewStyle().Foreground(TextMuted)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(Phosphor)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Separator = lipgloss.NewStyle().Foreground(Overlay)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// PanelWidth returns the width of result panels for the current size.
func (t *Theme) PanelWidth() int {
	w := t.Width - 4
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}
