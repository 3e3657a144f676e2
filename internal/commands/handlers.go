// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"

	"github.com/jeranaias/amiselected/internal/lookup"
	"github.com/jeranaias/amiselected/internal/scan"
)

// Messages shown for rejected status checks.
const (
	MsgMissingEmail = "Error: Please provide an email address"
	MsgInvalidEmail = "Error: Please provide a valid email address"
	MsgBusy         = "Error: A status check is already in progress"
)

// NotFoundMessage is the reply to an unknown command.
func NotFoundMessage(normalized string) string {
	return "Command not found: " + normalized + ". Type 'help' for available commands."
}

func handleHelp(ctx *Context) *scan.Run {
	ctx.Reply(ctx.Help)
	return nil
}

func handleClear(ctx *Context) *scan.Run {
	ctx.Store.ClearHistory()
	return nil
}

func handleAmISelected(ctx *Context) *scan.Run {
	arg, ok := ctx.Parse.Command.Argument(ctx.Parse.Trimmed)
	if !ok {
		ctx.Log.Info("status check rejected", "reason", "missing argument")
		ctx.Reply(MsgMissingEmail)
		return nil
	}
	if !strings.Contains(arg, "@") {
		ctx.Log.Info("status check rejected", "reason", "invalid argument")
		ctx.Reply(MsgInvalidEmail)
		return nil
	}

	if ctx.Processing() {
		ctx.Reply(MsgBusy)
		return nil
	}

	run, err := ctx.Scanner.Start(lookup.Normalize(arg))
	if err != nil {
		if errors.Is(err, scan.ErrBusy) {
			ctx.Reply(MsgBusy)
		} else {
			ctx.Reply("Error: " + err.Error())
		}
		return nil
	}
	return run
}

// Processing reports whether a run is in flight.
func (c *Context) Processing() bool {
	return c.Store.Processing()
}
