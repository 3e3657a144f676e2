// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/amiselected/internal/config"
	"github.com/jeranaias/amiselected/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app carries the global flags and the lazily loaded configuration.
type app struct {
	cfgPath  string
	logLevel string

	cfg *config.Config
}

// config loads the configuration on first use and initializes logging
// from it. Commands that only write config files never call it.
func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logging.Init(logging.Config{
		LogDir:     cfg.Logging.Dir,
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	logging.ForComponent(logging.CompCLI).Debug("config loaded",
		"path", a.cfgPath,
		"backend", cfg.Lookup.Backend)

	a.cfg = cfg
	return cfg, nil
}

// configPath resolves the file the config subcommands read and write.
func (a *app) configPath() (string, error) {
	if a.cfgPath != "" {
		return config.ExpandPath(a.cfgPath), nil
	}
	return config.ConfigPathTOML()
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "amiselected",
		Short: "Check whether you made the SIAM JUIT selection",
		Long: `amiselected is a terminal selection portal. Type 'help' inside the
session to see the available commands, or use 'amiselected check <email>'
for a one-shot check.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if IsTTY() && IsStdoutTTY() {
				return a.runTUI(cmd)
			}
			return a.runREPL(cmd, false)
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "path to config file (default ~/.amiselected/config.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(newReplCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newRosterCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	logging.Shutdown()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(stderr, "Error: %s\n", strings.TrimSpace(err.Error()))
	}
	return GetExitCode(err)
}
