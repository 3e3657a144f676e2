// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/jeranaias/amiselected/internal/engine"
	"github.com/jeranaias/amiselected/internal/scan"
	"github.com/jeranaias/amiselected/internal/session"
	"github.com/jeranaias/amiselected/internal/ui/terminal"
)

// printer writes the outputs of new history entries to a line-oriented
// writer. Command echoes are skipped since the user already typed them.
type printer struct {
	eng    *engine.Engine
	render *terminal.Renderer
	out    io.Writer

	// ID of the last entry written; "" before the first one.
	printed   string
	lastAgent string
}

// flush writes every entry recorded after the last one written. When that
// entry is no longer in history (it was cleared) all entries are new.
func (p *printer) flush() {
	state := p.eng.State()

	if state.Agent.Active && state.Agent.Message != p.lastAgent {
		p.lastAgent = state.Agent.Message
		fmt.Fprintln(p.out, "  "+state.Agent.Message)
	}
	if !state.Agent.Active {
		p.lastAgent = ""
	}

	start := 0
	for i, e := range state.History {
		if e.ID == p.printed {
			start = i + 1
			break
		}
	}
	for _, e := range state.History[start:] {
		if out := p.render.Output(e.Output); out != "" {
			fmt.Fprintln(p.out, out)
		}
	}

	p.printed = ""
	if last, ok := state.LastEntry(); ok {
		p.printed = last.ID
	}
}

// follow prints entries as the run progresses and returns once it exits.
func (p *printer) follow(w *session.Watcher, run *scan.Run) {
	for {
		select {
		case <-w.Changes():
			p.flush()
		case <-run.Done():
			p.flush()
			return
		}
	}
}
