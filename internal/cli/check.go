// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/amiselected/internal/model"
)

func newCheckCmd(a *app) *cobra.Command {
	var fast, quiet bool
	cmd := &cobra.Command{
		Use:   "check <email>",
		Short: "Run one status check and exit",
		Long: `Run one status check. The exit status reports the verdict:
0 selected, 4 not selected, 5 lookup error, 2 invalid identifier.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeBackend, err := a.openSession(fast)
			if err != nil {
				return err
			}
			defer closeBackend()

			out := cmd.OutOrStdout()
			p := &printer{eng: eng, render: a.newRenderer(), out: out}
			w := eng.Store().Watch()
			defer w.Stop()

			run := eng.Dispatch("amiselected " + args[0])
			if run == nil {
				// Rejected before a run started; the reply says why.
				p.flush()
				return &ExitError{Code: ExitUsageError}
			}

			var outcome model.Output
			if quiet {
				outcome = run.Wait()
				fmt.Fprintln(out, outcome.String())
			} else {
				p.follow(w, run)
				outcome = run.Wait()
			}

			switch outcome.Result {
			case model.ResultSuccess:
				return nil
			case model.ResultFailure:
				return &ExitError{Code: ExitNotSelected}
			default:
				return &ExitError{Code: ExitLookupError}
			}
		},
	}
	cmd.Flags().BoolVar(&fast, "fast", false, "skip the stage delays and lookup latency")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the verdict")
	return cmd
}
