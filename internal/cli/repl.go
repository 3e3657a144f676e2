// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeranaias/amiselected/internal/config"
	"github.com/jeranaias/amiselected/internal/logging"
)

const historyFileName = "repl_history"

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func newReplCmd(a *app) *cobra.Command {
	var fast bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start a line-mode session",
		Long: `Start a session without the full-screen terminal. Up/Down recall
earlier commands and Tab completes command names. Ctrl+D, Ctrl+C or
'exit' ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(cmd, fast)
		},
	}
	cmd.Flags().BoolVar(&fast, "fast", false, "skip the stage delays and lookup latency")
	return cmd
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineEditor wraps liner with a history file in the config directory.
type lineEditor struct {
	*liner.State
	historyFile string
}

func newLineEditor(complete func(string) []string) *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	e := &lineEditor{State: line, historyFile: filepath.Join(dir, historyFileName)}
	if f, err := os.Open(e.historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return e
}

// Close saves history with owner-only permissions and restores the terminal.
func (e *lineEditor) Close() {
	if err := os.MkdirAll(filepath.Dir(e.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = e.WriteHistory(f)
			f.Close()
		}
	}
	e.State.Close()
}

// pipedReader reads plain lines when input is not a terminal.
type pipedReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPipedReader(in io.Reader, out io.Writer) *pipedReader {
	return &pipedReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *pipedReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	line := r.scanner.Text()
	fmt.Fprintln(r.out, line)
	return line, nil
}

func (r *pipedReader) AppendHistory(string) {}

// =============================================================================
// LOOP
// =============================================================================

func (a *app) runREPL(cmd *cobra.Command, fast bool) error {
	eng, closeBackend, err := a.openSession(fast)
	if err != nil {
		return err
	}
	defer closeBackend()

	out := cmd.OutOrStdout()
	p := &printer{eng: eng, render: a.newRenderer(), out: out}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		editor := newLineEditor(eng.Completer().Candidates)
		defer editor.Close()
		return replLoop(editor, p, a.cfg.Session.Prompt)
	}
	return replLoop(newPipedReader(in, out), p, a.cfg.Session.Prompt)
}

// replLoop reads lines until EOF, an abort or exit.
func replLoop(in lineReader, p *printer, prompt string) error {
	log := logging.ForComponent(logging.CompCLI)
	w := p.eng.Store().Watch()
	defer w.Stop()

	fmt.Fprintln(p.out, "Welcome to the SIAM JUIT Selection Portal")
	fmt.Fprintln(p.out, "Type 'help' to see available commands")

	for {
		line, err := in.Prompt(prompt + " ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(p.out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
			return nil
		}
		in.AppendHistory(line)

		if run := p.eng.Submit(line); run != nil {
			log.Debug("status check started", "run", run.ID)
			p.follow(w, run)
			continue
		}
		p.flush()
	}
}
