// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for amiselected.
//
// Configuration is read from a TOML file, filled with defaults, overridden
// from the environment, and validated.
//
// # Locations
//
//   - --config flag (explicit path)
//   - ~/.amiselected/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	delays := cfg.Stages.Delays()
//
// # Environment Variables
//
// AMISELECTED_DB, AMISELECTED_BACKEND, AMISELECTED_ROSTER,
// AMISELECTED_LOG_DIR, AMISELECTED_LOG_LEVEL, AMISELECTED_SOUND,
// AMISELECTED_SELECTED_URL and AMISELECTED_UPDATES_URL override the
// matching file settings.
package config
