// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"github.com/jeranaias/amiselected/internal/util"
)

// Shortcut documents a key binding of the interactive terminal.
type Shortcut struct {
	Keys        string
	Description string
}

// Shortcuts lists the bindings shown in help.
var Shortcuts = []Shortcut{
	{"Ctrl+L or 'clear'", "Clear terminal"},
	{"Up/Down arrows", "Command history"},
	{"Tab", "Autocomplete commands"},
}

// ExampleIdentifier is used in the help example.
const ExampleIdentifier = "john@juitsolan.in"

const helpColumn = 24

// HelpText renders the help message for a registry.
func HelpText(r *Registry) string {
	var b strings.Builder

	b.WriteString("Available commands:\n")
	var example string
	for _, c := range r.All() {
		if c.Hidden {
			continue
		}
		usage := c.Usage
		if usage == "" {
			usage = c.Name
		}
		if c.Prefix && example == "" {
			example = c.Name + " " + ExampleIdentifier
		}
		b.WriteString("  " + util.PadRight(usage, helpColumn) + "- " + c.Description + "\n")
	}

	if example != "" {
		b.WriteString("\nExample:\n  " + example + "\n")
	}

	b.WriteString("\nKeyboard shortcuts:")
	for _, s := range Shortcuts {
		b.WriteString("\n  " + util.PadRight(s.Keys, helpColumn) + "- " + s.Description)
	}
	return b.String()
}
