// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// misc_cmd.go - theme, export, config and version commands.
//
// Examples:
//   sahpaathi theme toggle
//   sahpaathi export -f html -o ~/notes
//   sahpaathi config get server.base_url
//   sahpaathi config set history.replay_interval_ms 0
//   sahpaathi version --json

package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/config"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/export"
)

// =============================================================================
// THEME
// =============================================================================

func newThemeCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle the light/dark theme",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			mode := a.Theme.Mode()
			return e.emit(cmd, map[string]string{"theme": string(mode)}, func(w io.Writer) error {
				fmt.Fprintln(w, mode)
				return nil
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			mode, err := a.Theme.Toggle()
			if err != nil {
				return err
			}
			return e.emit(cmd, map[string]string{"theme": string(mode)}, func(w io.Writer) error {
				fmt.Fprintln(w, SuccessStyle.Render("Theme:")+" "+string(mode))
				return nil
			})
		},
	}

	cmd.AddCommand(show, toggle)
	return cmd
}

// =============================================================================
// EXPORT
// =============================================================================

func newExportCommand(e *env) *cobra.Command {
	var (
		sessionID string
		format    string
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save a session as " + strings.Join(export.Formats(), ", "),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			sess, err := resolveSession(ctx, a, sessionID)
			if err != nil {
				return err
			}
			path, err := a.Export(ctx, sess.ID, format, outputDir)
			if err != nil {
				return err
			}
			return e.emit(cmd, map[string]string{"path": path, "format": format}, func(w io.Writer) error {
				fmt.Fprintln(w, SuccessStyle.Render("Exported to")+" "+path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id (default most recent)")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "markdown, html, json or yaml")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "output directory")
	return cmd
}

// =============================================================================
// CONFIG
// =============================================================================

func newConfigCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and change configuration",
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := e.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.loadConfig()
			if err != nil {
				return err
			}
			return e.emit(cmd, cfg, func(w io.Writer) error {
				fmt.Fprint(w, cfg.String())
				return nil
			})
		},
	}

	get := &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.loadConfig()
			if err != nil {
				return err
			}
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			return e.emit(cmd, map[string]any{args[0]: v}, func(w io.Writer) error {
				fmt.Fprintln(w, v)
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting and save the config file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.loadFileConfig()
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			target, err := e.configFile()
			if err != nil {
				return err
			}
			// JSON configs are migrated to TOML alongside.
			if strings.EqualFold(filepath.Ext(target), ".json") {
				target = strings.TrimSuffix(target, filepath.Ext(target)) + ".toml"
			}
			if err := config.SaveTOML(cfg, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("Saved"), args[0], args[1])
			return nil
		},
	}

	keys := &cobra.Command{
		Use:   "keys",
		Short: "List settable keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.emit(cmd, config.Keys(), func(w io.Writer) error {
				for _, k := range config.Keys() {
					fmt.Fprintln(w, k)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(path, show, get, set, keys)
	return cmd
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.emit(cmd, e.build, func(w io.Writer) error {
				fmt.Fprintln(w, "sahpaathi "+e.build.String())
				return nil
			})
		},
	}
}
