// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lookup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/amiselected/internal/config"
	"github.com/jeranaias/amiselected/internal/logging"
)

// Handle is a configured Service chain together with the resources it
// holds open.
type Handle struct {
	Service
	closers []io.Closer
}

// Close releases the backend.
func (h *Handle) Close() error {
	var errs []error
	for _, c := range h.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open builds the Service described by cfg: the backend, wrapped in the
// rate limiter and the artificial delay.
func Open(cfg config.LookupConfig) (*Handle, error) {
	log := logging.ForComponent(logging.CompLookup)
	h := &Handle{}

	var backend Service
	switch strings.ToLower(cfg.Backend) {
	case "sqlite":
		store, err := OpenSQLite(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, store)
		backend = store

	case "roster":
		roster, err := NewRoster(cfg.RosterPath)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, roster)
		if err := roster.Watch(); err != nil {
			log.Warn("roster watch unavailable", "path", cfg.RosterPath, "error", err)
		}
		backend = roster

	case "static":
		backend = Static(cfg.DemoIdentifier)

	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrNotConfigured, cfg.Backend)
	}

	var svc Service = backend
	if cfg.RatePerSecond > 0 {
		svc = Limit(svc, cfg.RatePerSecond, cfg.Burst)
	}
	svc = Delayed(svc, cfg.Delay())
	h.Service = svc

	log.Debug("lookup backend opened", "backend", cfg.Backend)
	return h, nil
}
