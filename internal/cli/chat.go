// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - line-mode REPL over the same app state the TUI uses.
//
// Command: chat
// Short:   Chat in line mode
//
// Examples:
//   sahpaathi chat                    TUI on a terminal, REPL otherwise
//   sahpaathi chat --plain            Always use the REPL
//   sahpaathi chat --legacy           Also clear server history on /new
//   echo "What is osmosis?" | sahpaathi chat
//
// Interactive Commands (during chat):
//   /new, /switch <n>, /sessions, /teacher [name|off], /prompts,
//   /prompt <n|title>, /quiz [n|syllabus <text>|paper <syllabus>],
//   /pdf <file>, /textpdf [text], /theme, /copy, /export [format],
//   /help, /quit
//   Ctrl+D exits.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/api"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/app"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/chat"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/quiz"
)

type chatOptions struct {
	plain     bool
	legacy    bool
	outputDir string
}

func (o *chatOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&o.plain, "plain", false, "use the line-mode REPL even on a terminal")
	f.BoolVar(&o.legacy, "legacy", false, "clear server history when starting a new chat")
	f.StringVarP(&o.outputDir, "output", "o", ".", "directory for PDFs, papers and exports")
}

func newChatCommand(e *env) *cobra.Command {
	var opts chatOptions
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with SAHPAATHI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.plain && IsTTY() && IsStdoutTTY() {
				return e.runTUI(cmd, opts)
			}
			return e.runREPL(cmd, opts, "")
		},
	}
	opts.bind(cmd)
	return cmd
}

// =============================================================================
// REPL
// =============================================================================

type repl struct {
	a    *app.App
	opts chatOptions
	out  io.Writer
	in   lineReader
	term *render.Terminal
	seen map[string]bool
	quit bool
}

// runREPL starts the app and reads lines until EOF or /quit. A non-empty
// sessionID is opened instead of the most recent session.
func (e *env) runREPL(cmd *cobra.Command, opts chatOptions, sessionID string) error {
	ctx := cmd.Context()
	a, err := e.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// Entries are printed after each step, so staggering only adds delay.
	a.History.SetInterval(0)

	r := &repl{
		a:    a,
		opts: opts,
		out:  cmd.OutOrStdout(),
		in:   newLineReader(cmd.InOrStdin()),
		seen: make(map[string]bool),
	}
	defer r.in.Close()
	r.applyTheme()

	if err := a.Start(ctx); err != nil {
		r.printErr(err)
	}
	if sessionID != "" {
		if err := a.Sessions.SwitchTo(ctx, sessionID); err != nil {
			return err
		}
	}
	r.banner()
	r.flush(true)

	for !r.quit {
		line, err := r.in.Prompt(PromptStyle.Render("you> "))
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			r.command(ctx, line)
			continue
		}
		r.send(ctx, line)
	}
	a.Chat.Wait()
	return nil
}

func (r *repl) applyTheme() {
	r.term = render.NewTerminal(render.TerminalOptions{
		Mode:    r.a.Theme.Mode(),
		Width:   GetTerminalWidth(),
		Plain:   !IsStdoutTTY(),
		NoColor: !ColorsEnabled(),
	})
}

func (r *repl) banner() {
	name := "no session"
	if cur, _, ok := r.a.Sessions.Current(); ok {
		name = cur.DisplayName()
	}
	fmt.Fprintln(r.out, TitleStyle.Render("SAHPAATHI")+DimStyle.Render(" · "+name+" · /help for commands"))
	if p, ok := r.a.Teachers.Active(); ok {
		fmt.Fprintln(r.out, DimStyle.Render("Teacher mode: "+p.Name))
	}
}

// flush prints entries not printed yet. showWelcome draws the placeholder
// when the transcript is empty.
func (r *repl) flush(showWelcome bool) {
	snap := r.a.Transcript.Snapshot()
	if showWelcome && snap.Welcome != nil {
		fmt.Fprintln(r.out, r.term.Welcome(*snap.Welcome))
		fmt.Fprintln(r.out)
	}
	for _, e := range snap.Entries {
		if r.seen[e.ID] {
			continue
		}
		r.seen[e.ID] = true
		fmt.Fprintln(r.out, r.term.Entry(e))
		fmt.Fprintln(r.out)
	}
}

// markSeen skips the entries on screen already, such as the line just typed.
func (r *repl) markSeen() {
	for _, e := range r.a.Transcript.Entries() {
		r.seen[e.ID] = true
	}
}

func (r *repl) send(ctx context.Context, text string) {
	p, err := r.a.Chat.Submit(ctx, text)
	if err != nil {
		if !errors.Is(err, chat.ErrEmptyInput) {
			r.printErr(err)
		}
		return
	}
	r.markSeen()
	fmt.Fprintln(r.out, DimStyle.Render("SAHPAATHI is typing..."))

	waitCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if _, err := p.Wait(waitCtx); err != nil {
		fmt.Fprintln(r.out, WarningStyle.Render("Stopped waiting; the reply will show up later."))
		return
	}
	r.flush(false)
}

func (r *repl) printErr(err error) {
	fmt.Fprintln(r.out, ErrorStyle.Render("Error:")+" "+err.Error())
}

func (r *repl) info(msg string) {
	fmt.Fprintln(r.out, DimStyle.Render(msg))
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (r *repl) command(ctx context.Context, line string) {
	parts := strings.Fields(line)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]
	text := strings.TrimSpace(strings.Join(args, " "))
	a := r.a

	switch name {
	case "new":
		sess, err := a.NewChat(ctx, r.opts.legacy)
		if err != nil {
			r.printErr(err)
			return
		}
		r.info("Started " + sess.DisplayName())
		r.flush(true)

	case "switch":
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 {
			r.printErr(errors.New("usage: /switch <n> (see /sessions)"))
			return
		}
		if err := a.Sessions.SwitchToIndex(ctx, n-1); err != nil {
			r.printErr(err)
			return
		}
		cur, _, _ := a.Sessions.Current()
		r.info("Switched to " + cur.DisplayName())
		r.flush(true)

	case "sessions":
		if err := a.Sessions.Refresh(ctx); err != nil {
			r.printErr(err)
		}
		printSessions(r.out, a.Sessions.Sessions(), currentID(a))

	case "teacher":
		switch strings.ToLower(text) {
		case "":
			printTeachers(r.out, a.Teachers.List(), a.Teachers)
		case "off":
			if err := a.Teachers.Deactivate(); err != nil {
				r.printErr(err)
				return
			}
			r.info("Teacher mode off")
		default:
			p, err := a.Teachers.Activate(text)
			if err != nil {
				r.printErr(err)
				return
			}
			r.info("Teacher mode: " + p.Name)
		}

	case "prompts":
		printPrompts(r.out, a.Prompts.List())

	case "prompt":
		e, ok := a.Prompts.Find(text)
		if !ok {
			r.printErr(fmt.Errorf("no prompt %q", text))
			return
		}
		edited, err := r.in.PromptWithSuggestion(PromptStyle.Render("you> "), e.Text)
		if err != nil {
			return
		}
		if edited = strings.TrimSpace(edited); edited != "" {
			r.send(ctx, edited)
		}

	case "quiz":
		r.quiz(ctx, args)

	case "pdf":
		if text == "" {
			r.printErr(errors.New("usage: /pdf <file.md>"))
			return
		}
		url, err := a.PDF.ConvertMarkdownFile(ctx, text)
		r.savePDF(ctx, url, err)

	case "textpdf":
		if text == "" {
			last, ok := a.Transcript.LastText(render.KindAI)
			if !ok {
				r.printErr(errors.New("nothing to convert yet"))
				return
			}
			text = last
		}
		title := "SAHPAATHI"
		if cur, _, ok := a.Sessions.Current(); ok {
			title = cur.DisplayName()
		}
		url, err := a.PDF.ConvertText(ctx, text, title)
		r.savePDF(ctx, url, err)

	case "theme":
		mode, err := a.Theme.Toggle()
		if err != nil {
			r.printErr(err)
		}
		r.applyTheme()
		r.info("Theme: " + string(mode))

	case "copy":
		last, ok := a.Transcript.LastText(render.KindAI)
		if !ok {
			r.printErr(errors.New("nothing to copy yet"))
			return
		}
		if err := clipboard.WriteAll(last); err != nil {
			r.printErr(err)
			return
		}
		r.info("Copied last reply")

	case "export":
		format := "markdown"
		if text != "" {
			format = strings.ToLower(args[0])
		}
		path, err := a.Export(ctx, "", format, r.opts.outputDir)
		if err != nil {
			r.printErr(err)
			return
		}
		fmt.Fprintln(r.out, SuccessStyle.Render("Exported to "+path))

	case "help", "?":
		r.help()

	case "quit", "exit", "q":
		r.quit = true

	default:
		r.printErr(fmt.Errorf("unknown command /%s (try /help)", name))
	}
}

func (r *repl) savePDF(ctx context.Context, url string, err error) {
	if err != nil {
		r.printErr(err)
		return
	}
	saved, err := r.a.PDF.Download(ctx, url, r.opts.outputDir)
	if err != nil {
		r.printErr(err)
		return
	}
	fmt.Fprintln(r.out, SuccessStyle.Render("PDF saved to "+saved))
}

func (r *repl) quiz(ctx context.Context, args []string) {
	a := r.a
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	if sub == "paper" {
		req := api.PaperRequest{
			Syllabus:        strings.Join(args[1:], " "),
			QuestionCount:   10,
			DifficultyLevel: quiz.Medium,
			SessionID:       currentID(a),
		}
		text, err := a.Quiz.QuestionPaper(ctx, req)
		if err != nil {
			r.printErr(err)
			return
		}
		path, err := savePaper(text, r.opts.outputDir)
		if err != nil {
			r.printErr(err)
			return
		}
		fmt.Fprintln(r.out, r.term.Markdown(text))
		fmt.Fprintln(r.out, SuccessStyle.Render("Question paper saved to "+path))
		return
	}

	var (
		qs  []model.Question
		err error
	)
	if sub == "syllabus" {
		qs, err = a.Quiz.FromSyllabus(ctx, strings.Join(args[1:], " "), quiz.DefaultCount)
	} else {
		count := 0
		if sub != "" {
			if count, err = strconv.Atoi(sub); err != nil {
				r.printErr(errors.New("usage: /quiz [n] | /quiz syllabus <text> | /quiz paper <syllabus>"))
				return
			}
		}
		id := currentID(a)
		if id == "" {
			r.printErr(quiz.ErrNoSession)
			return
		}
		qs, err = a.Quiz.FromChat(ctx, id, count)
	}
	if err != nil {
		r.printErr(err)
		return
	}
	takeQuiz(r.out, r.in, qs)
}

func (r *repl) help() {
	rows := [][2]string{
		{"/new", "start a new chat"},
		{"/switch <n>", "open session n (see /sessions)"},
		{"/sessions", "list sessions"},
		{"/teacher [name|off]", "list teachers or set teacher mode"},
		{"/prompts", "list saved prompts"},
		{"/prompt <n|title>", "edit and send a saved prompt"},
		{"/quiz [n]", "quiz on this chat"},
		{"/quiz syllabus <text>", "quiz on a syllabus"},
		{"/quiz paper <syllabus>", "generate a question paper"},
		{"/pdf <file>", "Markdown file to PDF"},
		{"/textpdf [text]", "text (or last reply) to PDF"},
		{"/theme", "toggle light/dark"},
		{"/copy", "copy the last reply"},
		{"/export [format]", "save this chat (markdown, html, json, yaml)"},
		{"/quit", "exit (or Ctrl+D)"},
	}
	for _, row := range rows {
		fmt.Fprintf(r.out, "  %-24s %s\n", row[0], DimStyle.Render(row[1]))
	}
}

func currentID(a *app.App) string {
	if cur, _, ok := a.Sessions.Current(); ok {
		return cur.ID
	}
	return ""
}
