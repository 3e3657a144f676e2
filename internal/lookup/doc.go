// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lookup resolves an identifier to a selection verdict.
//
// The session engine only depends on the Service interface. This package
// also ships the backends the binary can be configured with:
//
//   - SQLiteStore: the selected_students table in a local SQLite database
//   - Roster: a plain-text file of identifiers, reloaded when it changes
//   - Static: a fixed in-memory set (demo and tests)
//
// Wrappers add behavior around any Service:
//
//   - Limit: token-bucket throttling of calls to the backend
//   - Delayed: fixed artificial latency
//
// # Usage
//
//	h, err := lookup.Open(cfg.Lookup)
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	selected, err := h.Check(ctx, "someone@juitsolan.in")
package lookup
