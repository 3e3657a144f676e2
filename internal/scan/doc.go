// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scan runs the staged status check behind the amiselected command.
//
// A run is a fixed sequence of stages driven by a loop:
//
//	Enter -> Processing -> Checking -> Analyzing -> Lookup -> Exit
//
// Enter happens synchronously in Start and claims the session's single
// run slot; the remaining stages run on their own goroutine. Each stage
// waits on the Clock, updates the session store, and moves on. Lookup
// calls the Service exactly once, and Exit always restores the session to
// idle and records exactly one result.
//
// # Usage
//
//	orch := scan.New(store, svc)
//	run, err := orch.Start("someone@juitsolan.in")
//	if errors.Is(err, scan.ErrBusy) {
//	    // a run is already in flight
//	}
//	outcome := run.Wait()
//
// Tests substitute a Clock so no real time passes between stages.
package scan
