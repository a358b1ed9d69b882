// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions_cmd.go - session and history commands.
//
// Examples:
//   sahpaathi sessions list
//   sahpaathi sessions new "Organic chemistry"
//   sahpaathi sessions rename 3f2a... "Photosynthesis"
//   sahpaathi sessions switch 2        Open the 2nd session in the REPL
//   sahpaathi history show -s 3f2a...
//   sahpaathi history clear            Legacy /api/clear

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/app"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/util"
)

// ErrNoSessions is returned when a command needs a session and the backend
// has none.
var ErrNoSessions = errors.New("no sessions yet; start one with 'sahpaathi sessions new'")

// resolveSession returns id when set, else the most recent session.
func resolveSession(ctx context.Context, a *app.App, id string) (model.Session, error) {
	list, err := a.Client.ListSessions(ctx)
	if err != nil {
		if id != "" {
			return model.Session{ID: id}, nil
		}
		return model.Session{}, err
	}
	if id == "" {
		if len(list) == 0 {
			return model.Session{}, ErrNoSessions
		}
		return list[0], nil
	}
	for _, s := range list {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Session{ID: id}, nil
}

// pickSession accepts a 1-based list position or a session id.
func pickSession(list []model.Session, ref string) (model.Session, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return model.Session{}, fmt.Errorf("session %d out of range (1-%d)", n, len(list))
		}
		return list[n-1], nil
	}
	for _, s := range list {
		if s.ID == ref {
			return s, nil
		}
	}
	return model.Session{}, fmt.Errorf("no session %q", ref)
}

func printSessions(w io.Writer, list []model.Session, currentID string) {
	if len(list) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No sessions."))
		return
	}
	for i, s := range list {
		marker := "  "
		if s.ID == currentID {
			marker = SuccessStyle.Render("*") + " "
		}
		name := util.TruncateWidth(s.DisplayName(), 40)
		fmt.Fprintf(w, "%s%2d. %s %s\n", marker, i+1, util.PadWidth(name, 40), IDStyle.Render(s.ID))
	}
}

// =============================================================================
// SESSIONS
// =============================================================================

func newSessionsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "List, create, rename and open chat sessions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			sessions, err := a.Client.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			return e.emit(cmd, sessions, func(w io.Writer) error {
				printSessions(w, sessions, "")
				return nil
			})
		},
	}

	create := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := model.DefaultSessionName
			if len(args) == 1 {
				name = args[0]
			}
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			id, err := a.Client.CreateSession(cmd.Context(), name)
			if err != nil {
				return err
			}
			sess := model.Session{ID: id, Name: name}
			return e.emit(cmd, sess, func(w io.Writer) error {
				fmt.Fprintln(w, SuccessStyle.Render("Created")+" "+sess.DisplayName()+" "+IDStyle.Render(id))
				return nil
			})
		},
	}

	rename := &cobra.Command{
		Use:   "rename <n|id> <name>",
		Short: "Rename a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			list, err := a.Client.ListSessions(ctx)
			if err != nil {
				return err
			}
			sess, err := pickSession(list, args[0])
			if err != nil {
				return err
			}
			name := util.TruncateName(args[1], model.MaxSessionNameRunes)
			if err := a.Client.RenameSession(ctx, sess.ID, name); err != nil {
				return err
			}
			sess.Name = name
			return e.emit(cmd, sess, func(w io.Writer) error {
				fmt.Fprintln(w, SuccessStyle.Render("Renamed to")+" "+name)
				return nil
			})
		},
	}

	var opts chatOptions
	switchCmd := &cobra.Command{
		Use:   "switch <n|id>",
		Short: "Open a session in the line-mode REPL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := func() (string, error) {
				a, err := e.openApp()
				if err != nil {
					return "", err
				}
				defer a.Close()
				list, err := a.Client.ListSessions(cmd.Context())
				if err != nil {
					return "", err
				}
				sess, err := pickSession(list, args[0])
				return sess.ID, err
			}()
			if err != nil {
				return err
			}
			return e.runREPL(cmd, opts, id)
		},
	}
	opts.bind(switchCmd)

	cmd.AddCommand(list, create, rename, switchCmd)
	return cmd
}

// =============================================================================
// HISTORY
// =============================================================================

func newHistoryCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear chat history",
	}

	var sessionID string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print a session's messages",
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
			conv, err := a.Conversation(ctx, sess.ID)
			if err != nil {
				return err
			}
			return e.emit(cmd, conv, func(w io.Writer) error {
				fmt.Fprintln(w, TitleStyle.Render(conv.Title())+" "+IDStyle.Render(sess.ID))
				fmt.Fprintln(w, RenderSeparator(0))
				if len(conv.Messages) == 0 {
					fmt.Fprintln(w, DimStyle.Render("No messages."))
				}
				for _, m := range conv.Messages {
					label := LabelStyle.Render(m.Role.DisplayName() + ":")
					fmt.Fprintf(w, "%s %s\n\n", label, m.Content)
				}
				return nil
			})
		},
	}
	show.Flags().StringVarP(&sessionID, "session", "s", "", "session id (default most recent)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the server's legacy conversation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Client.Clear(cmd.Context()); err != nil {
				return err
			}
			return e.emit(cmd, map[string]bool{"cleared": true}, func(w io.Writer) error {
				fmt.Fprintln(w, SuccessStyle.Render("History cleared"))
				return nil
			})
		},
	}

	cmd.AddCommand(show, clearCmd)
	return cmd
}
