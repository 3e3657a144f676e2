// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lookup

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// RATE LIMITING
// =============================================================================

// Limited throttles calls to the wrapped Service.
type Limited struct {
	next    Service
	limiter *rate.Limiter
}

// Limit wraps svc so that at most perSecond checks (with the given burst)
// reach it. Callers block until a token is available or ctx ends.
func Limit(svc Service, perSecond float64, burst int) *Limited {
	if burst < 1 {
		burst = 1
	}
	return &Limited{next: svc, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Check waits for a token and then delegates.
func (l *Limited) Check(ctx context.Context, identifier string) (bool, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return l.next.Check(ctx, identifier)
}

// =============================================================================
// ARTIFICIAL LATENCY
// =============================================================================

type delayed struct {
	next  Service
	delay time.Duration
}

// Delayed wraps svc so every check takes at least d.
func Delayed(svc Service, d time.Duration) Service {
	if d <= 0 {
		return svc
	}
	return &delayed{next: svc, delay: d}
}

func (d *delayed) Check(ctx context.Context, identifier string) (bool, error) {
	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	return d.next.Check(ctx, identifier)
}
