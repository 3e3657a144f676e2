// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"time"

	"github.com/jeranaias/amiselected/internal/engine"
	"github.com/jeranaias/amiselected/internal/lookup"
	"github.com/jeranaias/amiselected/internal/ui/styles"
	"github.com/jeranaias/amiselected/internal/ui/terminal"
)

// openSession opens the configured lookup backend and builds an engine
// over it. fast drops the stage delays and the artificial lookup latency.
// The returned func closes the backend.
func (a *app) openSession(fast bool) (*engine.Engine, func() error, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}

	lc := cfg.Lookup
	delays := cfg.Stages.Delays()
	if fast {
		lc.DelayMs = 0
		delays = [3]time.Duration{}
	}

	h, err := lookup.Open(lc)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(h.Service,
		engine.WithSound(cfg.Session.SoundEnabled),
		engine.WithDelays(delays),
	)
	return eng, h.Close, nil
}

// newRenderer builds the line-mode renderer sized to the terminal.
func (a *app) newRenderer() *terminal.Renderer {
	theme := styles.NewTheme(a.cfg.UI.Theme)
	theme.SetSize(GetTerminalSize())
	return terminal.NewRenderer(theme, a.cfg.Session.Prompt, a.cfg.Invites.SelectedURL, a.cfg.Invites.UpdatesURL)
}
