// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/amiselected/internal/model"
	"github.com/jeranaias/amiselected/internal/scan"
	"github.com/jeranaias/amiselected/internal/ui/styles"
	"github.com/jeranaias/amiselected/internal/util"
)

const (
	welcomeTitle = "Welcome to the SIAM JUIT Selection Portal"
	welcomeHint  = "Type 'help' to see available commands"

	agentBarWidth = 12
)

// View renders the model.
func (m *Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.overlayAgent(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// =============================================================================
// SCROLLBACK
// =============================================================================

func (m *Model) renderHistory() string {
	parts := []string{
		m.theme.Prompt.Render(welcomeTitle),
		m.theme.Footer.Render(welcomeHint),
		"",
	}
	for _, e := range m.state.History {
		if r := m.render.Entry(e); r != "" {
			parts = append(parts, r)
		}
	}
	return strings.Join(parts, "\n")
}

// =============================================================================
// AGENT OVERLAY
// =============================================================================

// overlayAgent draws the agent over the scrollback row selected by its
// vertical position.
func (m *Model) overlayAgent(view string) string {
	agent := m.state.Agent
	if !agent.Active || m.viewport.Height <= 0 {
		return view
	}

	rows := strings.Split(view, "\n")
	row := clampIndex(int(agent.Position.Y*float64(len(rows))), len(rows))
	col := int(agent.Position.X * float64(m.width))

	rows[row] = strings.Repeat(" ", max(col, 0)) + m.renderAgent(agent, m.width-col)
	return strings.Join(rows, "\n")
}

// renderAgent renders the spinner, the message badge and the progress bar,
// shortening the message to fit in avail cells.
func (m *Model) renderAgent(agent model.AgentStatus, avail int) string {
	spin := m.theme.AgentSpinner.Render(styles.ScanSpinner.Frame(m.spinFrame))
	bar := m.theme.Footer.Render(styles.RenderProgressBar(agentBarWidth, agentProgress(agent.Message)))

	msg := agent.Message
	if m.width > 0 {
		fixed := lipgloss.Width(spin) + lipgloss.Width(bar) + 2 + m.theme.Agent.GetHorizontalPadding()
		msg = util.TruncateWidth(msg, avail-fixed)
	}
	return spin + " " + m.theme.Agent.Render(msg) + " " + bar
}

// agentProgress maps the agent message to how far the check has come.
func agentProgress(message string) float64 {
	switch message {
	case scan.AgentInitiating:
		return 1.0 / 3
	case scan.AgentAccessing:
		return 2.0 / 3
	case scan.AgentAnalyzing:
		return 1
	default:
		return 0
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// =============================================================================
// FOOTER
// =============================================================================

func (m *Model) renderFooter() string {
	sep := m.theme.Separator.Render(" | ")
	footer := ""
	if m.state.Processing {
		footer = m.theme.StageMarker.Render("checking")
	}
	for _, b := range m.keys.FooterBindings() {
		h := b.Help()
		desc := h.Desc
		if h.Key == m.keys.Sound.Help().Key {
			desc += ": " + onOff(m.state.SoundEnabled)
		}
		part := m.theme.ShortcutKey.Render(h.Key) + " " + m.theme.ShortcutDesc.Render(desc)
		next := part
		if footer != "" {
			next = footer + sep + part
		}
		if m.width > 0 && lipgloss.Width(next) > m.width {
			break
		}
		footer = next
	}
	return m.theme.Footer.Render(footer)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
