// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// tools_cmd.go - PDF, quiz, teacher and prompt library commands.
//
// Examples:
//   sahpaathi pdf md notes.md -o ~/Downloads
//   sahpaathi pdf text "Newton's laws..." --title Physics
//   cat answer.txt | sahpaathi pdf text -
//   sahpaathi quiz chat -n 5 --take
//   sahpaathi quiz syllabus "Cell biology, mitosis" --answers
//   sahpaathi quiz paper "Thermodynamics" --difficulty hard -n 20
//   sahpaathi teacher use Socrates
//   sahpaathi prompts add "Explain" "Explain like I'm 12:"

package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/api"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/prompts"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/quiz"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/teacher"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/util"
)

// =============================================================================
// PDF
// =============================================================================

type pdfResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

func newPDFCommand(e *env) *cobra.Command {
	var (
		outputDir string
		title     string
	)
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Convert Markdown or text to PDF",
	}
	cmd.PersistentFlags().StringVarP(&outputDir, "output", "o", ".", "directory to save the PDF in")

	md := &cobra.Command{
		Use:   "md <file.md>",
		Short: "Convert a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			url, err := a.PDF.ConvertMarkdownFile(ctx, args[0])
			if err != nil {
				return err
			}
			saved, err := a.PDF.Download(ctx, url, outputDir)
			if err != nil {
				return err
			}
			return e.emit(cmd, pdfResult{URL: url, Path: saved}, func(w io.Writer) error {
				fmt.Fprintln(w, SuccessStyle.Render("PDF saved to")+" "+saved)
				return nil
			})
		},
	}

	text := &cobra.Command{
		Use:   "text <text|->",
		Short: "Convert text; '-' reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := args[0]
			if body == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				body = string(data)
			}
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			url, err := a.PDF.ConvertText(ctx, body, title)
			if err != nil {
				return err
			}
			saved, err := a.PDF.Download(ctx, url, outputDir)
			if err != nil {
				return err
			}
			return e.emit(cmd, pdfResult{URL: url, Path: saved}, func(w io.Writer) error {
				fmt.Fprintln(w, SuccessStyle.Render("PDF saved to")+" "+saved)
				return nil
			})
		},
	}
	text.Flags().StringVar(&title, "title", "SAHPAATHI", "document title")

	cmd.AddCommand(md, text)
	return cmd
}

// =============================================================================
// QUIZ
// =============================================================================

type quizFlags struct {
	count   int
	answers bool
	take    bool
}

func (f *quizFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.count, "count", "n", quiz.DefaultCount, "number of questions")
	cmd.Flags().BoolVar(&f.answers, "answers", false, "mark the correct options")
	cmd.Flags().BoolVar(&f.take, "take", false, "answer the questions interactively")
}

func newQuizCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate quizzes and question papers",
	}

	// output prints or runs the generated questions.
	output := func(cmd *cobra.Command, f quizFlags, qs []model.Question) error {
		if f.take && !e.json {
			in := newLineReader(cmd.InOrStdin())
			defer in.Close()
			takeQuiz(cmd.OutOrStdout(), in, qs)
			return nil
		}
		return e.emit(cmd, qs, func(w io.Writer) error {
			printQuestions(w, qs, f.answers)
			return nil
		})
	}

	var (
		chatFlags quizFlags
		sessionID string
	)
	fromChat := &cobra.Command{
		Use:   "chat",
		Short: "Quiz on a chat session",
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
			qs, err := a.Quiz.FromChat(ctx, sess.ID, chatFlags.count)
			if err != nil {
				return err
			}
			return output(cmd, chatFlags, qs)
		},
	}
	chatFlags.bind(fromChat)
	fromChat.Flags().StringVarP(&sessionID, "session", "s", "", "session id (default most recent)")

	var sylFlags quizFlags
	fromSyllabus := &cobra.Command{
		Use:   "syllabus <text|->",
		Short: "Quiz on a syllabus; '-' reads stdin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := argText(cmd, args)
			if err != nil {
				return err
			}
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			qs, err := a.Quiz.FromSyllabus(cmd.Context(), text, sylFlags.count)
			if err != nil {
				return err
			}
			return output(cmd, sylFlags, qs)
		},
	}
	sylFlags.bind(fromSyllabus)

	var (
		paperCount int
		difficulty string
		paperDir   string
		paperSess  string
	)
	paper := &cobra.Command{
		Use:   "paper <syllabus|->",
		Short: "Generate a question paper and save it as Markdown",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := quiz.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			text, err := argText(cmd, args)
			if err != nil {
				return err
			}
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			body, err := a.Quiz.QuestionPaper(cmd.Context(), api.PaperRequest{
				Syllabus:        text,
				QuestionCount:   paperCount,
				DifficultyLevel: level,
				SessionID:       paperSess,
			})
			if err != nil {
				return err
			}
			path, err := savePaper(body, paperDir)
			if err != nil {
				return err
			}
			return e.emit(cmd, map[string]string{"path": path, "paper": body}, func(w io.Writer) error {
				fmt.Fprintln(w, body)
				fmt.Fprintln(w, SuccessStyle.Render("Question paper saved to")+" "+path)
				return nil
			})
		},
	}
	paper.Flags().IntVarP(&paperCount, "count", "n", 10, "number of questions")
	paper.Flags().StringVarP(&difficulty, "difficulty", "d", quiz.Medium, "easy, medium or hard")
	paper.Flags().StringVarP(&paperDir, "output", "o", ".", "directory to save the paper in")
	paper.Flags().StringVarP(&paperSess, "session", "s", "", "include this session's chat as context")

	cmd.AddCommand(fromChat, fromSyllabus, paper)
	return cmd
}

// argText joins args, or reads stdin for a lone "-".
func argText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

// savePaper writes a question paper to dir with a timestamped name.
func savePaper(text, dir string) (string, error) {
	name := "question_paper_" + time.Now().Format("20060102_150405") + ".md"
	path := filepath.Join(dir, name)
	if err := util.AtomicWriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("save question paper: %w", err)
	}
	return path, nil
}

func printQuestion(w io.Writer, n int, q model.Question, showAnswer bool) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(fmt.Sprintf("Q%d.", n)), q.Question)
	correct := q.CorrectIndex()
	for i, opt := range q.Options {
		line := fmt.Sprintf("   %s) %s", model.OptionLabel(i), opt)
		if showAnswer && i == correct {
			line = SuccessStyle.Render(line + "  [correct]")
		}
		fmt.Fprintln(w, line)
	}
}

func printQuestions(w io.Writer, qs []model.Question, showAnswers bool) {
	for i, q := range qs {
		printQuestion(w, i+1, q, showAnswers)
		fmt.Fprintln(w)
	}
}

// takeQuiz asks each question in turn and prints the score. Unparseable
// answers are asked again; EOF ends the quiz early.
func takeQuiz(w io.Writer, in lineReader, qs []model.Question) quiz.Score {
	attempt := quiz.NewAttempt(qs)
	for {
		i, more := attempt.Next()
		if !more {
			break
		}
		q := attempt.Questions[i]
		printQuestion(w, i+1, q, false)

		line, err := in.Prompt(PromptStyle.Render("answer> "))
		if err != nil {
			break
		}
		choice, err := quiz.ParseChoice(q, line)
		if err != nil {
			fmt.Fprintln(w, WarningStyle.Render("Pick one of the options."))
			continue
		}
		ok, err := attempt.Answer(i, choice)
		switch {
		case err != nil:
			fmt.Fprintln(w, ErrorStyle.Render(err.Error()))
		case ok:
			fmt.Fprintln(w, SuccessStyle.Render("Correct!"))
		case q.CorrectIndex() >= 0:
			ci := q.CorrectIndex()
			fmt.Fprintf(w, "%s %s) %s\n", ErrorStyle.Render("Not quite. Answer:"), model.OptionLabel(ci), q.Options[ci])
		default:
			fmt.Fprintln(w, DimStyle.Render("Answer recorded."))
		}
		fmt.Fprintln(w)
	}
	score := attempt.Score()
	fmt.Fprintln(w, TitleStyle.Render("Score:")+" "+score.String())
	return score
}

// =============================================================================
// TEACHER MODE
// =============================================================================

func printTeachers(w io.Writer, list []model.Persona, mgr *teacher.Manager) {
	if len(list) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No teachers available."))
		return
	}
	active, on := mgr.Active()
	for i, p := range list {
		marker := "  "
		if on && p.ID == active.ID {
			marker = SuccessStyle.Render("*") + " "
		}
		kind := ""
		if p.IsCustom {
			kind = DimStyle.Render(" (custom)")
		}
		fmt.Fprintf(w, "%s%2d. %s%s %s\n", marker, i+1, p.Name, kind, IDStyle.Render(p.ID))
	}
}

func newTeacherCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teacher",
		Short: "Manage teacher personas and teacher mode",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List teachers; * marks the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Teachers.Refresh(cmd.Context()); err != nil {
				return err
			}
			list := a.Teachers.List()
			return e.emit(cmd, list, func(w io.Writer) error {
				printTeachers(w, list, a.Teachers)
				return nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <name> <prompt>",
		Short: "Create a custom teacher",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Teachers.Create(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Created teacher")+" "+args[0])
			return nil
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id|name> <new-name> <prompt>",
		Short: "Edit a custom teacher",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			if err := a.Teachers.Refresh(ctx); err != nil {
				return err
			}
			p, ok := a.Teachers.Find(args[0])
			if !ok {
				return fmt.Errorf("no teacher %q", args[0])
			}
			if err := a.Teachers.Update(ctx, p.ID, args[1], strings.Join(args[2:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Updated teacher")+" "+args[1])
			return nil
		},
	}

	use := &cobra.Command{
		Use:   "use <id|name|n>",
		Short: "Turn teacher mode on with this persona",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Teachers.Refresh(cmd.Context()); err != nil {
				return err
			}
			p, err := a.Teachers.Activate(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return e.emit(cmd, p, func(w io.Writer) error {
				fmt.Fprintln(w, SuccessStyle.Render("Teacher mode:")+" "+p.Name)
				return nil
			})
		},
	}

	off := &cobra.Command{
		Use:   "off",
		Short: "Turn teacher mode off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Teachers.Deactivate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Teacher mode off")
			return nil
		},
	}

	cmd.AddCommand(list, add, edit, use, off)
	return cmd
}

// =============================================================================
// PROMPT LIBRARY
// =============================================================================

func printPrompts(w io.Writer, list []prompts.Entry) {
	for i, p := range list {
		kind := ""
		if p.Custom {
			kind = DimStyle.Render(" (custom)")
		}
		fmt.Fprintf(w, "%2d. %s%s\n    %s\n", i+1, TitleStyle.Render(p.Title), kind,
			DimStyle.Render(util.TruncateWidth(p.Text, 72)))
	}
}

func newPromptsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prompts",
		Aliases: []string{"prompt"},
		Short:   "Manage the prompt library",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			list := a.Prompts.List()
			return e.emit(cmd, list, func(w io.Writer) error {
				printPrompts(w, list)
				return nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <title> <text>",
		Short: "Save a custom prompt",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Prompts.Add(args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Saved prompt")+" "+args[0])
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <n|title>",
		Aliases: []string{"remove"},
		Short:   "Remove a custom prompt",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ref := strings.Join(args, " ")
			if err := a.Prompts.Remove(ref); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed "+ref)
			return nil
		},
	}

	cmd.AddCommand(list, add, rm)
	return cmd
}
