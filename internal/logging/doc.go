// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides structured, rotating logs for amiselected.
//
// Logs are JSON (or text) records written through log/slog to a file rotated
// by lumberjack. The terminal belongs to the session UI, so nothing is
// written to stdout or stderr; without a log directory records are dropped.
//
// # Usage
//
//	logging.Init(logging.Config{LogDir: dir, Level: "debug"})
//	defer logging.Shutdown()
//
//	var log = logging.ForComponent(logging.CompScan)
//	log.Info("run started", "run", id)
package logging
