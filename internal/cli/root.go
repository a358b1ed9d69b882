// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/app"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/config"
	uichat "github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/ui/chat"
)

// BuildInfo is stamped into the binary with -ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func (b BuildInfo) String() string {
	v := b.Version
	if v == "" {
		v = "dev"
	}
	if b.Commit == "" {
		return v
	}
	return fmt.Sprintf("%s (%s, %s)", v, b.Commit, b.Date)
}

// env carries the global flags to every command.
type env struct {
	build BuildInfo

	configPath string
	baseURL    string
	noColor    bool
	json       bool

	// newApp is swapped in tests.
	newApp func(app.Options) (*app.App, error)
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the command tree.
func NewRootCommand(build BuildInfo) *cobra.Command {
	return newRoot(&env{build: build, newApp: app.New})
}

func newRoot(e *env) *cobra.Command {
	build := e.build
	var chatOpts chatOptions
	root := &cobra.Command{
		Use:   "sahpaathi",
		Short: "SAHPAATHI study companion in your terminal",
		Long: `sahpaathi talks to a SAHPAATHI tutoring backend.

With no subcommand it opens the full-screen chat, or a line-mode REPL when
input or output is not a terminal.`,
		Version:       build.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if e.noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !chatOpts.plain && IsTTY() && IsStdoutTTY() {
				return e.runTUI(cmd, chatOpts)
			}
			return e.runREPL(cmd, chatOpts, "")
		},
	}
	root.SetVersionTemplate("sahpaathi {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&e.configPath, "config", "", "config file (default ~/.sahpaathi/config.toml)")
	pf.StringVar(&e.baseURL, "base-url", "", "backend URL, overrides server.base_url")
	pf.BoolVar(&e.noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&e.json, "json", false, "print machine-readable JSON")

	chatOpts.bind(root)

	root.AddCommand(
		newChatCommand(e),
		newSessionsCommand(e),
		newHistoryCommand(e),
		newPDFCommand(e),
		newQuizCommand(e),
		newTeacherCommand(e),
		newPromptsCommand(e),
		newThemeCommand(e),
		newExportCommand(e),
		newConfigCommand(e),
		newVersionCommand(e),
	)
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute(build BuildInfo) {
	root := NewRootCommand(build)
	if err := root.ExecuteContext(context.Background()); err != nil {
		if asJSON(root) {
			_ = NewJSONErrorResponse(commandName(root), err).Write(os.Stdout)
		} else {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		}
		os.Exit(1)
	}
}

func asJSON(root *cobra.Command) bool {
	f := root.PersistentFlags().Lookup("json")
	return f != nil && f.Value.String() == "true"
}

func commandName(root *cobra.Command) string {
	cmd, _, err := root.Find(os.Args[1:])
	if err != nil || cmd == nil {
		return root.Name()
	}
	return strings.TrimPrefix(cmd.CommandPath(), root.Name()+" ")
}

// =============================================================================
// APP WIRING
// =============================================================================

// loadFileConfig reads --config, or the default location, without the
// command-line overrides.
func (e *env) loadFileConfig() (*config.Config, error) {
	if e.configPath == "" {
		return config.Load()
	}
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	return config.LoadFromPath(e.configPath)
}

// loadConfig is loadFileConfig plus --base-url.
func (e *env) loadConfig() (*config.Config, error) {
	cfg, err := e.loadFileConfig()
	if err != nil {
		return nil, err
	}
	if e.baseURL != "" {
		cfg.Server.BaseURL = strings.TrimRight(e.baseURL, "/")
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --base-url: %w", err)
		}
	}
	return cfg, nil
}

// configFile is the file the TUI watches.
func (e *env) configFile() (string, error) {
	if e.configPath != "" {
		return e.configPath, nil
	}
	return config.Path()
}

// openApp loads the config and wires the application. Callers Close it.
func (e *env) openApp() (*app.App, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	return e.newApp(app.Options{Config: cfg})
}

// emit prints data as JSON under --json, otherwise calls human.
func (e *env) emit(cmd *cobra.Command, data any, human func(w io.Writer) error) error {
	if e.json {
		return NewJSONResponse(strings.TrimPrefix(cmd.CommandPath(), "sahpaathi "), data).Write(cmd.OutOrStdout())
	}
	return human(cmd.OutOrStdout())
}

// =============================================================================
// TUI
// =============================================================================

func (e *env) runTUI(cmd *cobra.Command, opts chatOptions) error {
	a, err := e.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	m := uichat.New(a, uichat.Options{Legacy: opts.legacy, OutputDir: opts.outputDir})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if path, err := e.configFile(); err == nil {
		w, err := a.WatchConfig(path, func(cfg *config.Config) {
			p.Send(uichat.ConfigAppliedMsg{Config: cfg})
		})
		if err != nil {
			a.Logger.Warn("config hot reload disabled", "path", path, "err", err)
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
