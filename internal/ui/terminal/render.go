// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/amiselected/internal/model"
	"github.com/jeranaias/amiselected/internal/ui/styles"
)

// Renderer turns history entries into styled text. It is shared by the
// Bubble Tea model and the line-mode front ends.
type Renderer struct {
	theme       *styles.Theme
	prompt      string
	selectedURL string
	updatesURL  string
}

// NewRenderer creates a renderer. Command echoes are prefixed with prompt.
func NewRenderer(theme *styles.Theme, prompt, selectedURL, updatesURL string) *Renderer {
	return &Renderer{
		theme:       theme,
		prompt:      prompt,
		selectedURL: selectedURL,
		updatesURL:  updatesURL,
	}
}

// Entry renders the command echo, if any, followed by the output.
func (r *Renderer) Entry(e model.HistoryEntry) string {
	var lines []string
	if e.IsUserCommand() {
		lines = append(lines, r.theme.Prompt.Render(r.prompt)+" "+r.theme.Command.Render(e.Command))
	}
	if out := r.Output(e.Output); out != "" {
		lines = append(lines, out)
	}
	return strings.Join(lines, "\n")
}

// Output renders one output payload. NoOutput renders as "".
func (r *Renderer) Output(o model.Output) string {
	switch o.Kind {
	case model.KindPlainText:
		return r.theme.Output.Render(o.Text)
	case model.KindStageMarker:
		return r.theme.StageMarker.Render(o.Text)
	case model.KindResult:
		return r.result(o)
	default:
		return ""
	}
}

func (r *Renderer) result(o model.Output) string {
	var box lipgloss.Style
	var title string
	var body []string

	switch o.Result {
	case model.ResultSuccess:
		box, title = r.theme.SuccessBox, "CONGRATULATIONS!"
		body = []string{
			"You've been selected! Join our exclusive WhatsApp group to connect with other selected students.",
			"",
			"Join WhatsApp Group -> " + r.theme.LinkStyle.Render(r.selectedURL),
			"",
			"Selected Student",
		}
	case model.ResultFailure:
		box, title = r.theme.FailureBox, "BETTER LUCK NEXT TIME"
		body = []string{
			"Don't worry though! You will have a chance to try again. Join the updates (if you haven't) group for future opportunities.",
			"",
			"Join WhatsApp Group -> " + r.theme.LinkStyle.Render(r.updatesURL),
			"",
			"Tip: Stay active in college activities and maintain good academic performance!",
		}
	case model.ResultError:
		box, title = r.theme.ErrorBox, "SYSTEM ERROR"
		body = []string{
			"There was an issue checking your selection status. Please try again later.",
		}
		if o.Text != "" {
			body = append(body, "", "error: "+o.Text)
		}
		body = append(body, "", "That's on us. (Or maybe you're just late.)")
	default:
		return ""
	}

	content := r.theme.PanelTitle.Render(title) + "\n\n" + strings.Join(body, "\n")
	return box.Width(r.theme.PanelWidth()).Render(content)
}
