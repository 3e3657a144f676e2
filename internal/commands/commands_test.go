// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/amiselected/internal/lookup"
	"github.com/jeranaias/amiselected/internal/model"
	"github.com/jeranaias/amiselected/internal/scan"
	"github.com/jeranaias/amiselected/internal/session"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type instantClock struct{}

func (instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

// recordingStarter records identifiers instead of running anything.
type recordingStarter struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (s *recordingStarter) Start(id string) (*scan.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
	return nil, s.err
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *session.Store, *recordingStarter) {
	t.Helper()
	store := session.New()
	starter := &recordingStarter{}
	return NewDispatcher(store, starter), store, starter
}

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestParse(t *testing.T) {
	p := NewParser(NewRegistry())

	tests := []struct {
		input      string
		normalized string
		command    string
	}{
		{"help", "help", "help"},
		{"  HELP  ", "help", "help"},
		{"Clear", "clear", "clear"},
		{"AmISelected John@X.in", "amiselected john@x.in", "amiselected"},
		{"amiselected", "amiselected", "amiselected"},
		{"amiselectedx@y", "amiselectedx@y", "amiselected"},
		{"help me", "help me", ""},
		{"cls", "cls", ""},
		{"   ", "", ""},
	}

	for _, tc := range tests {
		res := p.Parse(tc.input)
		if res.Normalized != tc.normalized {
			t.Errorf("Parse(%q).Normalized = %q, want %q", tc.input, res.Normalized, tc.normalized)
		}
		name := ""
		if res.Command != nil {
			name = res.Command.Name
		}
		if name != tc.command {
			t.Errorf("Parse(%q).Command = %q, want %q", tc.input, name, tc.command)
		}
		if res.RawInput != tc.input {
			t.Errorf("Parse(%q).RawInput = %q", tc.input, res.RawInput)
		}
	}
}

func TestArgument(t *testing.T) {
	cmd := NewRegistry().Get("amiselected")
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{"amiselected John@JUIT.in", "John@JUIT.in", true},
		{"AMISELECTED   a@b.com", "a@b.com", true},
		{"amiselected two words", "two words", true},
		{"amiselected", "", false},
		{"amiselectedx@y.com", "", false},
	}
	for _, tc := range tests {
		got, ok := cmd.Argument(tc.line)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("Argument(%q) = (%q, %v), want (%q, %v)", tc.line, got, ok, tc.want, tc.wantOK)
		}
	}
	if _, ok := NewRegistry().Get("help").Argument("help x"); ok {
		t.Error("exact commands take no argument")
	}
}

// =============================================================================
// DISPATCH TESTS
// =============================================================================

func TestDispatchBlankIsNoOp(t *testing.T) {
	d, store, _ := newTestDispatcher(t)
	for _, line := range []string{"", "   ", "\t"} {
		if run := d.Dispatch(line); run != nil {
			t.Errorf("Dispatch(%q) returned a run", line)
		}
	}
	require.Empty(t, store.History())
}

func TestDispatchUnknown(t *testing.T) {
	tests := []string{"zz", "  LS -la ", "amiselect", "help please"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			d, store, starter := newTestDispatcher(t)
			d.Dispatch(input)

			hist := store.History()
			require.Len(t, hist, 2)
			require.Equal(t, input, hist[0].Command)
			require.True(t, hist[0].Output.IsEmpty())

			normalized := strings.ToLower(strings.TrimSpace(input))
			require.Equal(t, model.PlainText(NotFoundMessage(normalized)), hist[1].Output)
			require.Contains(t, hist[1].Output.Text, normalized)
			require.False(t, store.Processing())
			require.Empty(t, starter.ids)
		})
	}
}

func TestDispatchHelp(t *testing.T) {
	d, store, _ := newTestDispatcher(t)
	d.Dispatch("HELP")

	hist := store.History()
	require.Len(t, hist, 2)
	require.Equal(t, "HELP", hist[0].Command)
	require.Equal(t, model.KindPlainText, hist[1].Output.Kind)
	require.Equal(t, HelpText(d.Registry()), hist[1].Output.Text)

	st := store.Snapshot()
	require.False(t, st.Processing)
	require.False(t, st.Agent.Active)
}

func TestDispatchClear(t *testing.T) {
	for _, prior := range []int{0, 1, 7} {
		d, store, _ := newTestDispatcher(t)
		store.SetInput("pending")
		for i := 0; i < prior; i++ {
			d.Dispatch("help")
		}
		d.Dispatch("clear")

		st := store.Snapshot()
		if len(st.History) != 0 {
			t.Errorf("after %d help commands, clear left %d entries", prior, len(st.History))
		}
		if st.Input != "pending" {
			t.Error("clear should not touch the input buffer")
		}
	}
}

func TestDispatchValidation(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"amiselected", MsgMissingEmail},
		{"amiselected   ", MsgMissingEmail},
		{"amiselectedfoo@bar.com", MsgMissingEmail},
		{"amiselected nodomain", MsgInvalidEmail},
		{"AMISELECTED still-no-at", MsgInvalidEmail},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			d, store, starter := newTestDispatcher(t)
			var sawProcessing bool
			defer store.Subscribe(func(s model.State) {
				if s.Processing {
					sawProcessing = true
				}
			})()

			if run := d.Dispatch(tc.input); run != nil {
				t.Fatal("validation failure must not start a run")
			}

			hist := store.History()
			require.Len(t, hist, 2)
			require.Equal(t, tc.input, hist[0].Command)
			require.Equal(t, model.PlainText(tc.want), hist[1].Output)
			require.False(t, sawProcessing)
			require.Empty(t, starter.ids)
		})
	}
}

func TestDispatchNormalizesIdentifier(t *testing.T) {
	d, store, starter := newTestDispatcher(t)
	d.Dispatch("  AmISelected  John@JUITSolan.IN  ")

	require.Equal(t, []string{"john@juitsolan.in"}, starter.ids)
	hist := store.History()
	require.Len(t, hist, 1)
	require.Equal(t, "  AmISelected  John@JUITSolan.IN  ", hist[0].Command)
}

func TestDispatchStartError(t *testing.T) {
	d, store, starter := newTestDispatcher(t)

	starter.err = scan.ErrBusy
	d.Dispatch("amiselected a@b.com")
	last, _ := store.Snapshot().LastEntry()
	require.Equal(t, model.PlainText(MsgBusy), last.Output)

	starter.err = errors.New("boom")
	d.Dispatch("amiselected a@b.com")
	last, _ = store.Snapshot().LastEntry()
	require.Equal(t, model.PlainText("Error: boom"), last.Output)
}

// =============================================================================
// END-TO-END WITH THE ORCHESTRATOR
// =============================================================================

func TestDispatchFullRun(t *testing.T) {
	tests := []struct {
		name string
		svc  lookup.Service
		want model.Output
	}{
		{"selected", lookup.Static("a@b.com"), model.Success()},
		{"not selected", lookup.Static(), model.Failure()},
		{"error", lookup.Func(func(context.Context, string) (bool, error) {
			return false, errors.New("Network error occurred")
		}), model.Error("Network error occurred")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := session.New()
			orch := scan.New(store, tc.svc, scan.WithClock(instantClock{}))
			d := NewDispatcher(store, orch)

			run := d.Dispatch("amiselected a@b.com")
			require.NotNil(t, run)
			select {
			case <-run.Done():
			case <-time.After(2 * time.Second):
				t.Fatal("run did not finish")
			}

			st := store.Snapshot()
			var outs []model.Output
			for _, e := range st.History {
				outs = append(outs, e.Output)
			}
			require.Equal(t, "amiselected a@b.com", st.History[0].Command)
			require.Equal(t, []model.Output{
				model.NoOutput(),
				model.StageMarker(scan.MarkerProcessing),
				model.StageMarker(scan.MarkerChecking),
				model.StageMarker(scan.MarkerAnalyzing),
				tc.want,
			}, outs)
			require.False(t, st.Processing)
			require.False(t, st.Agent.Active)
		})
	}
}

func TestDispatchRefusesWhileProcessing(t *testing.T) {
	store := session.New()
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	svc := lookup.Func(func(context.Context, string) (bool, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return true, nil
	})
	orch := scan.New(store, svc, scan.WithClock(instantClock{}))
	d := NewDispatcher(store, orch)

	run := d.Dispatch("amiselected a@b.com")
	require.NotNil(t, run)
	require.True(t, store.Processing())

	require.Nil(t, d.Dispatch("amiselected c@d.com"))
	var refused bool
	for _, e := range store.History() {
		if e.Output == model.PlainText(MsgBusy) {
			refused = true
		}
	}
	require.True(t, refused, "second check should be refused with a message")

	// help still works during a run
	d.Dispatch("help")

	close(release)
	<-run.Done()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, calls)
}

// =============================================================================
// HELP TESTS
// =============================================================================

func TestHelpText(t *testing.T) {
	want := `Available commands:
  help                    - Show this help message
  clear                   - Clear the terminal
  amiselected <email>     - Check if an email is selected

Example:
  amiselected john@juitsolan.in

Keyboard shortcuts:
  Ctrl+L or 'clear'       - Clear terminal
  Up/Down arrows          - Command history
  Tab                     - Autocomplete commands`

	if got := HelpText(NewRegistry()); got != want {
		t.Errorf("HelpText mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	r.Register(&Command{Name: "help", Description: "custom"})
	require.Len(t, r.All(), 3)
	require.Equal(t, "custom", r.Get("help").Description)
	require.Equal(t, []string{"help", "clear", "amiselected"}, r.Names())

	r.Register(&Command{Name: "secret", Hidden: true})
	require.Equal(t, []string{"help", "clear", "amiselected"}, r.Names())
}
