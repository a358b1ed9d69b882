// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/theme"
)

// TypingSpinner is the typing indicator animation.
var TypingSpinner = spinner.Spinner{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    spinner.Dot.FPS,
}

// Theme holds every style for one mode.
type Theme struct {
	Mode         theme.Mode
	ColorProfile termenv.Profile

	// ==========================================================================
	// LAYOUT
	// ==========================================================================

	App         lipgloss.Style
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	Timestamp       lipgloss.Style
	Typing          lipgloss.Style

	WelcomeBox   lipgloss.Style
	WelcomeTitle lipgloss.Style
	WelcomeText  lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	Placeholder    lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style

	// ==========================================================================
	// TOOL PANEL
	// ==========================================================================

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	PanelItem  lipgloss.Style
	PanelKey   lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	TeacherBadge lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
}

// New builds the theme for mode using the detected color profile.
func New(mode theme.Mode) *Theme {
	return NewWithProfile(mode, termenv.ColorProfile())
}

// NewWithProfile builds the theme for mode with an explicit color profile.
// With termenv.Ascii every style renders without color.
func NewWithProfile(mode theme.Mode, profile termenv.Profile) *Theme {
	t := &Theme{Mode: mode, ColorProfile: profile}
	t.initStyles()
	return t
}

// Toggle returns the theme for the opposite mode.
func (t *Theme) Toggle() *Theme {
	return NewWithProfile(t.Mode.Opposite(), t.ColorProfile)
}

func (t *Theme) initStyles() {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(t.ColorProfile)
	r.SetHasDarkBackground(t.Mode == theme.Dark)
	c := func(p Pair) lipgloss.Color { return p.For(t.Mode) }
	s := r.NewStyle

	t.App = s()
	t.Header = s().
		Bold(true).
		Foreground(c(Indigo)).
		Background(c(SurfaceDim)).
		Padding(0, 1)
	t.HeaderTitle = s().Bold(true).Foreground(c(Indigo))
	t.HeaderMeta = s().Foreground(c(TextSecondary))

	// Transcript
	t.UserBubble = s().
		Foreground(c(UserBubbleFg)).
		Background(c(UserBubbleBg)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(UserBubbleBorder)).
		Padding(0, 1)
	t.AssistantBubble = s().
		Foreground(c(TextPrimary)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(AssistantBubbleBorder)).
		Padding(0, 1)
	t.ErrorBubble = s().
		Foreground(c(ErrorBubbleFg)).
		Background(c(ErrorBubbleBg)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(c(Rose)).
		BorderLeft(true).
		PaddingLeft(1)
	t.Timestamp = s().Foreground(c(TextMuted))
	t.Typing = s().Foreground(c(Emerald)).Italic(true)

	t.WelcomeBox = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(Indigo)).
		Padding(1, 4).
		Align(lipgloss.Center)
	t.WelcomeTitle = s().Bold(true).Foreground(c(Indigo))
	t.WelcomeText = s().Foreground(c(TextSecondary))

	// Input
	t.InputContainer = s().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(c(Overlay))
	t.InputPrompt = s().Foreground(c(Indigo)).Bold(true)
	t.Placeholder = s().Foreground(c(TextMuted)).Italic(true)

	// Sidebar
	t.Sidebar = s().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(c(Overlay)).
		Padding(0, 1)
	t.SidebarTitle = s().Bold(true).Foreground(c(TextSecondary)).MarginBottom(1)
	t.SessionItem = s().Foreground(c(TextPrimary))
	t.SessionItemSelected = s().
		Bold(true).
		Foreground(c(Indigo)).
		Background(c(SelectionBg))

	// Tool panel
	t.Panel = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(Amber)).
		Padding(0, 1)
	t.PanelTitle = s().Bold(true).Foreground(c(Amber))
	t.PanelItem = s().Foreground(c(TextPrimary))
	t.PanelKey = s().Foreground(c(Indigo)).Bold(true)

	// Status bar
	t.StatusBar = s().
		Foreground(c(TextSecondary)).
		Background(c(SurfaceDim)).
		Padding(0, 1)
	t.TeacherBadge = s().
		Bold(true).
		Foreground(c(TextInverse)).
		Background(c(Amber)).
		Padding(0, 1)
	t.ShortcutKey = s().Foreground(c(Indigo)).Bold(true)
	t.ShortcutDesc = s().Foreground(c(TextMuted))

	t.Success = s().Foreground(c(Emerald)).Bold(true)
	t.Error = s().Foreground(c(Rose)).Bold(true)
	t.Warning = s().Foreground(c(Amber)).Bold(true)
	t.Info = s().Foreground(c(Indigo))
	t.Muted = s().Foreground(c(TextMuted))
}

// =============================================================================
// STATUS HELPERS
// =============================================================================

// RenderSuccess renders message with the success indicator.
func (t *Theme) RenderSuccess(message string) string {
	return t.Success.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders message with the error indicator.
func (t *Theme) RenderError(message string) string {
	return t.Error.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders message with the warning indicator.
func (t *Theme) RenderWarning(message string) string {
	return t.Warning.Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders message with the info indicator.
func (t *Theme) RenderInfo(message string) string {
	return t.Info.Render(StatusIndicators.Info + " " + message)
}
