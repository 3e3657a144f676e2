// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lookup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/amiselected/internal/config"
)

// =============================================================================
// NORMALIZE / STATIC TESTS
// =============================================================================

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  A@B.com ", "a@b.com"},
		{"John@JUITSolan.in", "john@juitsolan.in"},
		{"", ""},
		// Decomposed e + combining acute becomes the composed form
		{"Jose\u0301@x.com", "jos\u00e9@x.com"},
	}
	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStatic(t *testing.T) {
	svc := Static("231030069@juitsolan.in", "  ")
	ctx := context.Background()

	ok, err := svc.Check(ctx, " 231030069@JUITSOLAN.IN")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Check(ctx, "other@juitsolan.in")
	require.NoError(t, err)
	require.False(t, ok)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.Check(cancelled, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestParseRoster(t *testing.T) {
	input := "# selected\nA@b.com\n\n  c@d.com  \na@B.com\n#x@y.com\n"
	ids, err := ParseRoster(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []string{"a@b.com", "c@d.com"}, ids)
}

// =============================================================================
// WRAPPER TESTS
// =============================================================================

func TestDelayed(t *testing.T) {
	svc := Delayed(Static("a@b.com"), 20*time.Millisecond)

	start := time.Now()
	ok, err := svc.Check(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.True(t, ok)
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Check returned after %v, want at least 20ms", elapsed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	slow := Delayed(Static("a@b.com"), time.Hour)
	if _, err := slow.Check(ctx, "a@b.com"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}

	if Delayed(Static(), 0) == nil {
		t.Error("zero delay should return the wrapped service")
	}
}

func TestLimit(t *testing.T) {
	var calls atomic.Int32
	inner := Func(func(ctx context.Context, id string) (bool, error) {
		calls.Add(1)
		return true, nil
	})
	svc := Limit(inner, 1, 1)

	ok, err := svc.Check(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.True(t, ok)

	// The bucket is empty now and the next token is a second away.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := svc.Check(ctx, "a@b.com"); err == nil {
		t.Error("expected rate limit wait to fail on a short deadline")
	}
	require.Equal(t, int32(1), calls.Load())
}

// =============================================================================
// SQLITE TESTS
// =============================================================================

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "selection.db"))
	require.NoError(t, err)
	defer store.Close()

	added, err := store.Add(ctx, " Student@JUITSolan.in ")
	require.NoError(t, err)
	require.True(t, added)

	added, err = store.Add(ctx, "student@juitsolan.in")
	require.NoError(t, err)
	require.False(t, added, "duplicate add should be ignored")

	ok, err := store.Check(ctx, "STUDENT@juitsolan.in")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Check(ctx, "nobody@juitsolan.in")
	require.NoError(t, err)
	require.False(t, ok)

	n, err := store.Import(ctx, strings.NewReader("# batch\na@x.in\nstudent@juitsolan.in\nb@x.in\n"))
	require.NoError(t, err)
	require.Equal(t, 2, n)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, s := range list {
		if s.ID == "" || s.AddedAt.IsZero() {
			t.Errorf("incomplete row: %+v", s)
		}
	}

	removed, err := store.Remove(ctx, "a@x.in")
	require.NoError(t, err)
	require.True(t, removed)

	require.NoError(t, store.Close())
	if _, err := store.Check(ctx, "b@x.in"); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

// =============================================================================
// ROSTER TESTS
// =============================================================================

func TestRosterReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.txt")
	require.NoError(t, os.WriteFile(path, []byte("a@b.com\n"), 0644))

	reloads := make(chan int, 8)
	roster, err := NewRoster(path, OnReload(func(n int, err error) {
		if err == nil {
			reloads <- n
		}
	}))
	require.NoError(t, err)
	defer roster.Close()
	require.Equal(t, 1, roster.Len())
	require.NoError(t, roster.Watch())

	ok, err := roster.Check(context.Background(), "c@d.com")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("a@b.com\nc@d.com\n"), 0644))

	require.Eventually(t, func() bool {
		ok, _ := roster.Check(context.Background(), "c@d.com")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, roster.Close())
	if _, err := roster.Check(context.Background(), "a@b.com"); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestNewRosterMissingFile(t *testing.T) {
	if _, err := NewRoster(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing roster")
	}
}

// =============================================================================
// OPEN TESTS
// =============================================================================

func TestOpen(t *testing.T) {
	cfg := config.Default().Lookup
	cfg.Backend = "static"
	cfg.DelayMs = 0

	h, err := Open(cfg)
	require.NoError(t, err)
	defer h.Close()

	ok, err := h.Check(context.Background(), config.DefaultDemoIdentifier)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOpenSQLiteBackend(t *testing.T) {
	cfg := config.Default().Lookup
	cfg.DatabasePath = filepath.Join(t.TempDir(), "selection.db")
	cfg.DelayMs = 0

	h, err := Open(cfg)
	require.NoError(t, err)

	ok, err := h.Check(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, h.Close())
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := config.Default().Lookup
	cfg.Backend = "ldap"
	if _, err := Open(cfg); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
