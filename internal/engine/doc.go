// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine bundles the session store, dispatcher, orchestrator,
// history navigator and completer behind the entry points a presentation
// layer drives: Dispatch, Recall, Complete and ClearHistory.
//
// # Usage
//
//	eng := engine.New(svc, engine.WithDelays(cfg.Stages.Delays()))
//	watcher := eng.Store().Watch()
//	defer watcher.Stop()
//
//	eng.Submit("amiselected john@juitsolan.in")
package engine
