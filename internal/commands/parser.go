// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "strings"

// ParseResult contains the result of parsing one input line.
type ParseResult struct {
	// RawInput is the line exactly as submitted
	RawInput string

	// Trimmed is RawInput without surrounding whitespace, original case
	Trimmed string

	// Normalized is the trimmed, lowercased line used for matching
	Normalized string

	// Command is the matched command (nil if not found)
	Command *Command
}

// IsEmpty reports whether the line was blank.
func (p ParseResult) IsEmpty() bool {
	return p.Normalized == ""
}

// Parser matches input lines against a registry.
type Parser struct {
	registry *Registry
}

// NewParser creates a new parser with the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse normalizes line and looks up its command.
func (p *Parser) Parse(line string) ParseResult {
	trimmed := strings.TrimSpace(line)
	result := ParseResult{
		RawInput:   line,
		Trimmed:    trimmed,
		Normalized: strings.ToLower(trimmed),
	}
	if result.Normalized != "" {
		result.Command = p.registry.Match(result.Normalized)
	}
	return result
}
