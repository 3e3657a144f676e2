// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lookup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/amiselected/internal/logging"
)

// ParseRoster reads one identifier per line. Blank lines and lines
// starting with '#' are skipped; duplicates are dropped.
func ParseRoster(r io.Reader) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id := Normalize(line)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("roster: read: %w", err)
	}
	return ids, nil
}

// =============================================================================
// ROSTER FILE
// =============================================================================

// Roster is a Service backed by a plain-text file. Watch keeps it in sync
// with the file on disk.
type Roster struct {
	path string

	mu  sync.RWMutex
	set map[string]struct{}

	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	done     chan struct{}
	onReload func(n int, err error)
	closed   bool

	log *slog.Logger
}

// RosterOption configures a Roster.
type RosterOption func(*Roster)

// OnReload registers a callback invoked after every reload attempt.
func OnReload(fn func(n int, err error)) RosterOption {
	return func(r *Roster) {
		r.onReload = fn
	}
}

// NewRoster loads the roster file at path.
func NewRoster(path string, opts ...RosterOption) (*Roster, error) {
	if path == "" {
		return nil, fmt.Errorf("roster: %w", ErrNotConfigured)
	}
	r := &Roster{
		path: path,
		set:  make(map[string]struct{}),
		log:  logging.ForComponent(logging.CompLookup),
	}
	for _, opt := range opts {
		opt(r)
	}
	if _, err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Len returns the number of identifiers currently loaded.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.set)
}

// Check reports whether the identifier is in the roster.
func (r *Roster) Check(ctx context.Context, identifier string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false, ErrClosed
	}
	_, ok := r.set[Normalize(identifier)]
	return ok, nil
}

// Reload re-reads the file. On error the previous contents are kept.
func (r *Roster) Reload() (int, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return 0, fmt.Errorf("roster: open: %w", err)
	}
	defer f.Close()

	ids, err := ParseRoster(f)
	if err != nil {
		return 0, err
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	r.mu.Lock()
	r.set = set
	r.mu.Unlock()
	return len(set), nil
}

// Watch starts reloading the roster whenever the file changes. The parent
// directory is watched so replace-by-rename saves are seen.
func (r *Roster) Watch() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("roster: watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(r.path)); err != nil {
		w.Close()
		return fmt.Errorf("roster: watch %s: %w", filepath.Dir(r.path), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.watcher = w
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.processEvents(ctx, w, r.done)
	return nil
}

func (r *Roster) processEvents(ctx context.Context, w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	target := filepath.Clean(r.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			n, err := r.Reload()
			if err != nil {
				r.log.Warn("roster reload failed", "path", r.path, "error", err)
			} else {
				r.log.Info("roster reloaded", "path", r.path, "entries", n)
			}
			if r.onReload != nil {
				r.onReload(n, err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			r.log.Warn("roster watcher error", "error", err)
		}
	}
}

// Close stops watching. Checks after Close return ErrClosed.
func (r *Roster) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	w, cancel, done := r.watcher, r.cancel, r.done
	r.mu.Unlock()

	if w == nil {
		return nil
	}
	cancel()
	err := w.Close()
	<-done
	return err
}
