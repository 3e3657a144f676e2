// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "strings"

// Completer offers prefix completion over command names.
type Completer struct {
	registry *Registry
}

// NewCompleter creates a new completer with the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Candidates returns the visible command names that start with the
// lowercased input, in registration order.
func (c *Completer) Candidates(input string) []string {
	prefix := strings.ToLower(input)
	var out []string
	for _, name := range c.registry.Names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

// Complete returns the single command name matching input. Zero or several
// matches complete nothing.
func (c *Completer) Complete(input string) (string, bool) {
	matches := c.Candidates(input)
	if len(matches) != 1 {
		return "", false
	}
	return matches[0], true
}
