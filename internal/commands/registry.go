// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/jeranaias/amiselected/internal/model"
	"github.com/jeranaias/amiselected/internal/scan"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command is one entry of the session vocabulary.
type Command struct {
	// Name is the command word (e.g., "help")
	Name string

	// Description is shown in help
	Description string

	// Usage shows argument syntax (e.g., "amiselected <email>")
	Usage string

	// Prefix commands match any normalized line starting with Name; the
	// rest of the line is the argument. Other commands need an exact match.
	Prefix bool

	// Handler executes the command. It returns the run it started, if any.
	Handler func(ctx *Context) *scan.Run

	// Hidden commands don't appear in help or completion
	Hidden bool

	argPattern *regexp.Regexp
}

// Argument extracts the argument from the trimmed, original-case line.
func (c *Command) Argument(line string) (string, bool) {
	if c.argPattern == nil {
		return "", false
	}
	m := c.argPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	arg := strings.TrimSpace(m[1])
	return arg, arg != ""
}

// Store is the part of the session store handlers touch.
type Store interface {
	AppendEntry(command string, output model.Output) model.HistoryEntry
	ClearHistory()
	Processing() bool
}

// Starter starts status check runs.
type Starter interface {
	Start(identifier string) (*scan.Run, error)
}

// Context is passed to command handlers.
type Context struct {
	Store   Store
	Scanner Starter
	Parse   ParseResult
	Help    string
	Log     *slog.Logger
}

// Reply appends a system text entry.
func (c *Context) Reply(text string) {
	c.Store.AppendEntry("", model.PlainText(text))
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds the vocabulary in registration order.
type Registry struct {
	commands []*Command
	byName   map[string]*Command
}

// NewRegistry creates a registry with the built-in vocabulary.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Command)}
	r.registerBuiltins()
	return r
}

// Register adds a command, replacing any command of the same name.
func (r *Registry) Register(cmd *Command) {
	if cmd.Prefix {
		cmd.argPattern = regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(cmd.Name) + `\s+(.+)$`)
	}
	if old, ok := r.byName[cmd.Name]; ok {
		for i, c := range r.commands {
			if c == old {
				r.commands[i] = cmd
			}
		}
	} else {
		r.commands = append(r.commands, cmd)
	}
	r.byName[cmd.Name] = cmd
}

// Get retrieves a command by exact name.
func (r *Registry) Get(name string) *Command {
	return r.byName[name]
}

// All returns the commands in registration order.
func (r *Registry) All() []*Command {
	return append([]*Command(nil), r.commands...)
}

// Names returns the visible command names in registration order.
func (r *Registry) Names() []string {
	var names []string
	for _, c := range r.commands {
		if !c.Hidden {
			names = append(names, c.Name)
		}
	}
	return names
}

// Match finds the command for a normalized line. Exact matches win over
// prefix matches.
func (r *Registry) Match(normalized string) *Command {
	if cmd, ok := r.byName[normalized]; ok && !cmd.Prefix {
		return cmd
	}
	for _, c := range r.commands {
		if c.Prefix && strings.HasPrefix(normalized, c.Name) {
			return c
		}
	}
	return nil
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "help",
		Description: "Show this help message",
		Handler:     handleHelp,
	})

	r.Register(&Command{
		Name:        "clear",
		Description: "Clear the terminal",
		Handler:     handleClear,
	})

	r.Register(&Command{
		Name:        "amiselected",
		Usage:       "amiselected <email>",
		Description: "Check if an email is selected",
		Prefix:      true,
		Handler:     handleAmISelected,
	})
}
