// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/amiselected/internal/logging"
	"github.com/jeranaias/amiselected/internal/session"
	"github.com/jeranaias/amiselected/internal/ui/styles"
	"github.com/jeranaias/amiselected/internal/ui/terminal"
)

// runTUI starts the full-screen terminal.
func (a *app) runTUI(cmd *cobra.Command) error {
	eng, closeBackend, err := a.openSession(false)
	if err != nil {
		return err
	}
	defer closeBackend()

	cfg := a.cfg
	log := logging.ForComponent(logging.CompUI)
	m := terminal.New(eng, styles.NewTheme(cfg.UI.Theme), terminal.Options{
		Prompt:      cfg.Session.Prompt,
		SelectedURL: cfg.Invites.SelectedURL,
		UpdatesURL:  cfg.Invites.UpdatesURL,
		Logger:      log,
	})
	defer m.Close()

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	opts = append(opts, tea.WithContext(cmd.Context()))

	log.Info("terminal started", "session", eng.Store().SessionID())
	_, err = tea.NewProgram(m, opts...).Run()
	status := eng.Store().GetStatus()
	log.Info("terminal stopped",
		"entries", status.Entries,
		"commands", status.Commands,
		"duration", session.FormatDuration(status.Duration))
	return err
}
