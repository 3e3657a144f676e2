// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/amiselected/internal/engine"
	"github.com/jeranaias/amiselected/internal/history"
	"github.com/jeranaias/amiselected/internal/logging"
	"github.com/jeranaias/amiselected/internal/model"
	"github.com/jeranaias/amiselected/internal/session"
	"github.com/jeranaias/amiselected/internal/ui/styles"
)

const (
	// Lines reserved below the scrollback: input and footer.
	reservedHeight = 2

	inputCharLimit = 256
)

// Options configures the presentation.
type Options struct {
	// Prompt is printed before the input and before echoed commands.
	Prompt string

	// Invite links shown on the Success and Failure panels.
	SelectedURL string
	UpdatesURL  string

	// Bell is called when a result arrives and sound is on. Defaults to
	// writing BEL to stdout.
	Bell func()

	Logger *slog.Logger
}

// spinTickMsg advances the agent spinner.
type spinTickMsg time.Time

// Model is the Bubble Tea model of a session.
type Model struct {
	eng     *engine.Engine
	watcher *session.Watcher
	theme   *styles.Theme
	keys    KeyMap
	opts    Options
	render  *Renderer
	log     *slog.Logger

	input    textinput.Model
	viewport viewport.Model

	state     model.State
	spinFrame int
	spinning  bool

	// ID of the last result entry the bell was rung for.
	lastBell string

	width  int
	height int
	ready  bool
}

// New creates a model over eng. The model subscribes to the engine's store
// immediately; call Close when the program exits.
func New(eng *engine.Engine, theme *styles.Theme, opts Options) *Model {
	if opts.Prompt == "" {
		opts.Prompt = "$"
	}
	if opts.Bell == nil {
		opts.Bell = func() { _, _ = os.Stdout.WriteString("\a") }
	}
	log := opts.Logger
	if log == nil {
		log = logging.ForComponent(logging.CompUI)
	}

	ti := textinput.New()
	ti.Prompt = opts.Prompt + " "
	ti.Placeholder = "type 'help' to see available commands"
	ti.CharLimit = inputCharLimit
	ti.Focus()

	vp := viewport.New(80, 20)

	m := &Model{
		eng:      eng,
		watcher:  eng.Store().Watch(),
		theme:    theme,
		keys:     DefaultKeyMap(),
		opts:     opts,
		render:   NewRenderer(theme, opts.Prompt, opts.SelectedURL, opts.UpdatesURL),
		log:      log,
		input:    ti,
		viewport: vp,
		state:    eng.State(),
	}
	if last, ok := m.state.LastEntry(); ok && last.Output.IsResult() {
		m.lastBell = last.ID
	}
	m.refreshContent()
	return m
}

// Init starts the cursor blink and the store watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.watcher.Wait())
}

// Close releases the store subscription.
func (m *Model) Close() {
	m.watcher.Stop()
}

// State returns the last snapshot the model rendered.
func (m *Model) State() model.State {
	return m.state
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case session.ChangedMsg:
		return m, m.handleChange(msg.State)

	case spinTickMsg:
		if !m.state.Agent.Active {
			m.spinning = false
			return m, nil
		}
		m.spinFrame++
		return m, m.spinTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	vpHeight := msg.Height - reservedHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vpHeight
	m.input.Width = msg.Width - len(m.input.Prompt) - 1
	m.ready = true

	m.refreshContent()
	return m, nil
}

func (m *Model) handleChange(state model.State) tea.Cmd {
	m.state = state
	cmds := []tea.Cmd{m.watcher.Wait()}

	// The input line is owned by the textinput; snapshots can lag behind
	// keystrokes, so state.Input is never copied back.

	if last, ok := state.LastEntry(); ok && last.Output.IsResult() && last.ID != m.lastBell {
		m.lastBell = last.ID
		if state.SoundEnabled {
			bell := m.opts.Bell
			cmds = append(cmds, func() tea.Msg {
				bell()
				return nil
			})
		}
	}

	if state.Agent.Active && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinTick())
	}

	m.refreshContent()
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		// The store is authoritative; the snapshot may lag one message.
		if m.eng.Store().Processing() {
			return m, nil
		}
		line := m.input.Value()
		if strings.TrimSpace(line) == "" {
			return m, nil
		}
		m.log.Debug("submit", "input", line)
		m.input.SetValue("")
		m.eng.Submit(line)
		return m, nil

	case key.Matches(msg, m.keys.Previous):
		m.recall(history.Previous)
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.recall(history.Next)
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		m.eng.SetInput(m.input.Value())
		if name, ok := m.eng.Complete(); ok {
			m.input.SetValue(name)
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.eng.ClearHistory()
		return m, nil

	case key.Matches(msg, m.keys.Sound):
		on := m.eng.ToggleSound()
		m.log.Debug("sound toggled", "enabled", on)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.eng.SetInput(m.input.Value())
	return m, cmd
}

func (m *Model) recall(dir history.Direction) {
	text, ok := m.eng.Recall(dir)
	if !ok {
		return
	}
	m.input.SetValue(text)
	m.input.CursorEnd()
}

func (m *Model) spinTick() tea.Cmd {
	return tea.Tick(styles.ScanSpinner.Duration(), func(t time.Time) tea.Msg {
		return spinTickMsg(t)
	})
}

// refreshContent re-renders the scrollback and keeps it pinned to the bottom.
func (m *Model) refreshContent() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}
