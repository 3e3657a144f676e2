// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/amiselected/internal/config"
	"github.com/jeranaias/amiselected/internal/logging"
	"github.com/jeranaias/amiselected/internal/lookup"
	"github.com/jeranaias/amiselected/internal/util"
)

const emailColumnWidth = 40

func newRosterCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the selected students database",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database (default lookup.database_path)")

	open := func() (*lookup.SQLiteStore, error) {
		path := dbPath
		if path == "" {
			cfg, err := a.config()
			if err != nil {
				return nil, err
			}
			path = cfg.Lookup.DatabasePath
		}
		return lookup.OpenSQLite(config.ExpandPath(path))
	}

	cmd.AddCommand(newRosterAddCmd(open))
	cmd.AddCommand(newRosterRemoveCmd(open))
	cmd.AddCommand(newRosterListCmd(open))
	cmd.AddCommand(newRosterImportCmd(open))
	return cmd
}

type storeOpener func() (*lookup.SQLiteStore, error)

func newRosterAddCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "add <email>...",
		Short: "Mark identifiers as selected",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, email := range args {
				if !strings.Contains(email, "@") {
					return NewCommandError("roster", "add", "not an email address", fmt.Errorf("%q", email))
				}
			}

			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			log := logging.ForComponent(logging.CompLookup)
			out := cmd.OutOrStdout()
			for _, email := range args {
				added, err := store.Add(cmd.Context(), email)
				if err != nil {
					return NewCommandError("roster", "add", email, err)
				}
				if added {
					log.Info("roster entry added")
					fmt.Fprintf(out, "added %s\n", lookup.Normalize(email))
				} else {
					fmt.Fprintf(out, "%s already present\n", lookup.Normalize(email))
				}
			}
			return nil
		},
	}
}

func newRosterRemoveCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <email>...",
		Aliases: []string{"rm"},
		Short:   "Remove identifiers from the selection",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			var missing []string
			for _, email := range args {
				removed, err := store.Remove(cmd.Context(), email)
				if err != nil {
					return NewCommandError("roster", "remove", email, err)
				}
				if !removed {
					missing = append(missing, lookup.Normalize(email))
					continue
				}
				fmt.Fprintf(out, "removed %s\n", lookup.Normalize(email))
			}
			if len(missing) > 0 {
				return &NotFoundError{Resource: "roster entry", ID: strings.Join(missing, ", ")}
			}
			return nil
		},
	}
}

func newRosterListCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List selected identifiers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			students, err := store.List(cmd.Context())
			if err != nil {
				return NewCommandError("roster", "list", "query failed", err)
			}

			out := cmd.OutOrStdout()
			if len(students) == 0 {
				fmt.Fprintln(out, "No selected students.")
				return nil
			}
			for _, s := range students {
				fmt.Fprintf(out, "%s  %s\n",
					util.PadRight(s.Email, emailColumnWidth),
					s.AddedAt.Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(out, "\n%d selected\n", len(students))
			return nil
		},
	}
}

func newRosterImportCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import identifiers, one per line (- or no file reads stdin)",
		Long: `Import identifiers, one per line. Blank lines and lines starting with
'#' are skipped. Identifiers already present are left alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return NewCommandError("roster", "import", "cannot open file", err)
				}
				defer f.Close()
				r = f
			}

			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Import(cmd.Context(), r)
			if err != nil {
				return NewCommandError("roster", "import", "import failed", err)
			}
			logging.ForComponent(logging.CompLookup).Info("roster imported", "added", n)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d new identifiers\n", n)
			return nil
		},
	}
}
