// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lookup resolves an identifier to a selection verdict.
package lookup

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured is returned when no usable backend is configured.
	ErrNotConfigured = errors.New("lookup: backend not configured")

	// ErrClosed is returned by backends used after Close.
	ErrClosed = errors.New("lookup: backend closed")
)

// =============================================================================
// SERVICE
// =============================================================================

// Service reports whether an identifier is selected. A non-nil error is a
// failed lookup, not a negative verdict.
type Service interface {
	Check(ctx context.Context, identifier string) (bool, error)
}

// Func adapts a function to a Service.
type Func func(ctx context.Context, identifier string) (bool, error)

// Check calls f.
func (f Func) Check(ctx context.Context, identifier string) (bool, error) {
	return f(ctx, identifier)
}

// Normalize trims, NFC-normalizes and lowercases an identifier. Backends
// store and compare identifiers in this form.
func Normalize(identifier string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(identifier)))
}

// =============================================================================
// STATIC SET
// =============================================================================

type staticSet map[string]struct{}

// Static returns a Service that selects exactly the given identifiers.
func Static(identifiers ...string) Service {
	set := make(staticSet, len(identifiers))
	for _, id := range identifiers {
		if id = Normalize(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func (s staticSet) Check(ctx context.Context, identifier string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := s[Normalize(identifier)]
	return ok, nil
}
