// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/theme"
)

// TerminalOptions configures a Terminal.
type TerminalOptions struct {
	Mode  theme.Mode
	Width int // wrap width, default 80

	// Plain disables glamour; code fences are still highlighted with chroma.
	Plain bool

	// NoColor strips all styling (pipes, dumb terminals).
	NoColor bool
}

// Terminal draws transcript entries as ANSI text.
type Terminal struct {
	opts TerminalOptions
	md   *glamour.TermRenderer

	userLabel  lipgloss.Style
	aiLabel    lipgloss.Style
	meta       lipgloss.Style
	errorStyle lipgloss.Style
	welcome    lipgloss.Style
	body       lipgloss.Style
}

// NewTerminal builds a terminal renderer. If glamour cannot be initialised
// it falls back to plain mode.
func NewTerminal(opts TerminalOptions) *Terminal {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	t := &Terminal{opts: opts}

	if !opts.Plain && !opts.NoColor {
		style := "light"
		if opts.Mode == theme.Dark {
			style = "dark"
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(opts.Width),
		)
		if err == nil {
			t.md = md
		}
	}

	accent, muted, danger := lipgloss.Color("#4F46E5"), lipgloss.Color("#6B7280"), lipgloss.Color("#DC2626")
	if opts.Mode == theme.Dark {
		accent, muted, danger = lipgloss.Color("#A5B4FC"), lipgloss.Color("#9CA3AF"), lipgloss.Color("#F87171")
	}
	if opts.NoColor {
		t.userLabel = lipgloss.NewStyle()
		t.aiLabel = lipgloss.NewStyle()
		t.meta = lipgloss.NewStyle()
		t.errorStyle = lipgloss.NewStyle()
		t.welcome = lipgloss.NewStyle()
	} else {
		t.userLabel = lipgloss.NewStyle().Bold(true).Foreground(accent)
		t.aiLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#059669"))
		t.meta = lipgloss.NewStyle().Foreground(muted)
		t.errorStyle = lipgloss.NewStyle().Foreground(danger)
		t.welcome = lipgloss.NewStyle().Bold(true).Foreground(accent)
	}
	t.body = lipgloss.NewStyle().Width(opts.Width)
	return t
}

// Width returns the wrap width.
func (t *Terminal) Width() int {
	return t.opts.Width
}

// Entry renders one entry with its header line.
func (t *Terminal) Entry(e Entry) string {
	switch e.Kind {
	case KindUser:
		header := t.userLabel.Render("You") + t.meta.Render(" · "+e.Time)
		return header + "\n" + t.body.Render(e.Text)
	case KindAI:
		header := t.aiLabel.Render("SAHPAATHI") + t.meta.Render(" · "+e.Time)
		return header + "\n" + t.Markdown(e.Text)
	default:
		return t.errorStyle.Render("✖ " + e.Text)
	}
}

// Markdown renders assistant text. Without glamour, fenced code is
// highlighted and everything else is wrapped as-is.
func (t *Terminal) Markdown(s string) string {
	if t.md != nil {
		out, err := t.md.Render(s)
		if err == nil {
			return strings.Trim(out, "\n")
		}
	}
	if t.opts.NoColor {
		return t.body.Render(s)
	}
	return t.highlightFences(s)
}

// Welcome renders the empty-chat placeholder.
func (t *Terminal) Welcome(w Welcome) string {
	return t.welcome.Render(w.Title) + "\n" + t.meta.Render(w.Text)
}

// Snapshot renders a whole transcript, separating entries with blank lines.
// typing is drawn once per visible indicator.
func (t *Terminal) Snapshot(s Snapshot, typing string) string {
	var parts []string
	if s.Welcome != nil {
		parts = append(parts, t.Welcome(*s.Welcome))
	}
	for _, e := range s.Entries {
		parts = append(parts, t.Entry(e))
	}
	for i := 0; i < s.Typing; i++ {
		parts = append(parts, t.meta.Render(typing))
	}
	return strings.Join(parts, "\n\n")
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

var fenceRe = regexp.MustCompile("(?s)```([A-Za-z0-9_+#-]*)\n?(.*?)```")

func (t *Terminal) highlightFences(s string) string {
	return fenceRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := fenceRe.FindStringSubmatch(m)
		return Highlight(strings.TrimRight(sub[2], "\n"), sub[1])
	})
}

// Highlight colours code for a 256-colour terminal. Unknown languages are
// guessed from the content; on any failure the code is returned unchanged.
func Highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
