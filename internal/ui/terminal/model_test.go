// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/amiselected/internal/engine"
	"github.com/jeranaias/amiselected/internal/lookup"
	"github.com/jeranaias/amiselected/internal/model"
	"github.com/jeranaias/amiselected/internal/scan"
	"github.com/jeranaias/amiselected/internal/session"
	"github.com/jeranaias/amiselected/internal/ui/styles"
)

type instantClock struct{}

func (instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

const selected = "231030069@juitsolan.in"

func newTestModel(t *testing.T) (*Model, *engine.Engine, *int32) {
	t.Helper()
	eng := engine.New(lookup.Static(selected), engine.WithClock(instantClock{}))
	var bells int32
	m := New(eng, styles.NewTheme("dark"), Options{
		Prompt:      "user@siam-juit:~$",
		SelectedURL: "https://example.com/selected",
		UpdatesURL:  "https://example.com/updates",
		Bell:        func() { atomic.AddInt32(&bells, 1) },
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, eng, &bells
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// deliver sends the current store snapshot the way the watcher would and
// runs the returned commands that complete immediately.
func deliver(m *Model, eng *engine.Engine) {
	_, cmd := m.Update(session.ChangedMsg{State: eng.State()})
	runImmediate(cmd)
}

func runImmediate(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				runImmediate(c)
			}
		}
	case <-time.After(50 * time.Millisecond):
		// Watcher waits and ticks block; ignore them.
	}
}

func waitIdle(t *testing.T, eng *engine.Engine) {
	t.Helper()
	require.Eventually(t, func() bool {
		last, ok := eng.State().LastEntry()
		return !eng.Store().Processing() && ok && last.Output.IsResult()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestViewBeforeResize(t *testing.T) {
	eng := engine.New(lookup.Static())
	m := New(eng, styles.NewTheme("dark"), Options{})
	defer m.Close()
	require.Contains(t, m.View(), "Initializing")
}

func TestWelcomeAndPrompt(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()
	require.Contains(t, view, welcomeTitle)
	require.Contains(t, view, "user@siam-juit:~$")
}

func TestTypingUpdatesInput(t *testing.T) {
	m, eng, _ := newTestModel(t)
	typeText(m, "help")
	require.Equal(t, "help", eng.State().Input)
}

func TestSubmitHelpEchoesCommand(t *testing.T) {
	m, eng, _ := newTestModel(t)
	typeText(m, "help")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	deliver(m, eng)

	require.Len(t, eng.State().History, 2)
	require.Equal(t, "", eng.State().Input)
	require.Equal(t, "", m.input.Value())

	view := m.View()
	require.Contains(t, view, "user@siam-juit:~$ help")
	require.Contains(t, view, "Available commands:")
}

func TestBlankEnterDoesNothing(t *testing.T) {
	m, eng, _ := newTestModel(t)
	typeText(m, "   ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Empty(t, eng.State().History)
}

func TestEnterIgnoredWhileProcessing(t *testing.T) {
	m, eng, _ := newTestModel(t)
	require.True(t, eng.Store().BeginRun(model.AgentStatus{Active: true, Message: scan.AgentInitiating}))

	typeText(m, "help")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Empty(t, eng.State().History)
	require.Equal(t, "help", m.input.Value())
}

func TestRunShowsSuccessPanelAndRingsOnce(t *testing.T) {
	m, eng, bells := newTestModel(t)
	typeText(m, "amiselected "+selected)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	waitIdle(t, eng)

	deliver(m, eng)
	deliver(m, eng)

	view := m.View()
	require.Contains(t, view, "CONGRATULATIONS!")
	require.Contains(t, view, "https://example.com/selected")
	require.Equal(t, int32(1), atomic.LoadInt32(bells))
}

func TestFailurePanel(t *testing.T) {
	m, eng, _ := newTestModel(t)
	typeText(m, "amiselected nobody@juitsolan.in")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	waitIdle(t, eng)
	deliver(m, eng)

	view := m.View()
	require.Contains(t, view, "BETTER LUCK NEXT TIME")
	require.Contains(t, view, "https://example.com/updates")
}

// flatten drops box-drawing borders and joins wrapped panel lines.
func flatten(s string) string {
	s = strings.Map(func(r rune) rune {
		if r >= 0x2500 && r <= 0x257F {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func TestErrorPanel(t *testing.T) {
	m, _, _ := newTestModel(t)
	out := m.render.Output(model.Error("Network error occurred"))
	require.Contains(t, out, "SYSTEM ERROR")
	require.Contains(t, flatten(out), "Please try again later.")
	require.Contains(t, out, "That's on us.")
	require.Contains(t, out, "Network error occurred")
}

func TestSoundToggleSilencesBell(t *testing.T) {
	m, eng, bells := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.False(t, eng.State().SoundEnabled)

	typeText(m, "amiselected "+selected)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	waitIdle(t, eng)
	deliver(m, eng)

	require.Equal(t, int32(0), atomic.LoadInt32(bells))
	require.Contains(t, m.renderFooter(), "sound: off")
}

func TestRecallKeys(t *testing.T) {
	m, eng, _ := newTestModel(t)
	for _, line := range []string{"help", "zz"} {
		typeText(m, line)
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "zz", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "help", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "zz", m.input.Value())
	require.Equal(t, "zz", eng.State().Input)
}

func TestDownFromPromptRecallsOldest(t *testing.T) {
	m, eng, _ := newTestModel(t)
	for _, line := range []string{"help", "zz"} {
		typeText(m, line)
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "help", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "zz", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "", m.input.Value())
	require.Equal(t, "", eng.State().Input)
}

func TestTabCompletes(t *testing.T) {
	m, eng, _ := newTestModel(t)
	typeText(m, "ami")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "amiselected", m.input.Value())
	require.Equal(t, "amiselected", eng.State().Input)
}

func TestCtrlLClears(t *testing.T) {
	m, eng, _ := newTestModel(t)
	typeText(m, "help")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotEmpty(t, eng.State().History)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	deliver(m, eng)
	require.Empty(t, eng.State().History)
	require.NotContains(t, m.View(), "Available commands:")
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}

func TestAgentOverlay(t *testing.T) {
	m, eng, _ := newTestModel(t)
	eng.Store().SetAgentStatus(model.AgentStatus{
		Active:   true,
		Message:  scan.AgentAccessing,
		Position: scan.PositionStart,
	})
	deliver(m, eng)

	require.True(t, m.spinning)
	rows := strings.Split(m.overlayAgent(m.viewport.View()), "\n")
	row := int(scan.PositionStart.Y * float64(len(rows)))
	require.Contains(t, rows[row], scan.AgentAccessing)
	require.True(t, strings.HasPrefix(rows[row], strings.Repeat(" ", 30)))

	// The spinner stops once the agent goes away.
	eng.Store().SetAgentStatus(model.AgentStatus{})
	deliver(m, eng)
	m.Update(spinTickMsg(time.Now()))
	require.False(t, m.spinning)
}

func TestAgentProgress(t *testing.T) {
	tests := []struct {
		msg  string
		want float64
	}{
		{scan.AgentInitiating, 1.0 / 3},
		{scan.AgentAccessing, 2.0 / 3},
		{scan.AgentAnalyzing, 1},
		{"", 0},
	}
	for _, tc := range tests {
		if got := agentProgress(tc.msg); got != tc.want {
			t.Errorf("agentProgress(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}
