// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/theme"
)

// Pair is a color with a value per theme mode.
type Pair struct {
	Light string
	Dark  string
}

// For resolves the pair for mode.
func (p Pair) For(mode theme.Mode) lipgloss.Color {
	if mode == theme.Dark {
		return lipgloss.Color(p.Dark)
	}
	return lipgloss.Color(p.Light)
}

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Indigo is the brand accent: header, user label, focus.
var Indigo = Pair{Light: "#4F46E5", Dark: "#A5B4FC"}

// Emerald marks the assistant and success states.
var Emerald = Pair{Light: "#059669", Dark: "#34D399"}

// Amber marks warnings and teacher mode.
var Amber = Pair{Light: "#D97706", Dark: "#FBBF24"}

// Rose marks errors.
var Rose = Pair{Light: "#DC2626", Dark: "#F87171"}

// =============================================================================
// SURFACES AND TEXT
// =============================================================================

var (
	Surface    = Pair{Light: "#FFFFFF", Dark: "#1E1E2E"}
	SurfaceDim = Pair{Light: "#F3F4F6", Dark: "#181825"}
	Overlay    = Pair{Light: "#E5E7EB", Dark: "#313244"}

	TextPrimary   = Pair{Light: "#1F2937", Dark: "#CDD6F4"}
	TextSecondary = Pair{Light: "#4B5563", Dark: "#A6ADC8"}
	TextMuted     = Pair{Light: "#9CA3AF", Dark: "#6C7086"}
	TextInverse   = Pair{Light: "#FFFFFF", Dark: "#1E1E2E"}
)

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

// User bubbles are right-aligned blue, assistant bubbles left-aligned neutral.
var (
	UserBubbleBg     = Pair{Light: "#DBEAFE", Dark: "#1E3A8A"}
	UserBubbleFg     = Pair{Light: "#1E40AF", Dark: "#E0F2FE"}
	UserBubbleBorder = Pair{Light: "#3B82F6", Dark: "#3B82F6"}

	AssistantBubbleBorder = Pair{Light: "#A7F3D0", Dark: "#047857"}

	ErrorBubbleBg = Pair{Light: "#FEE2E2", Dark: "#450A0A"}
	ErrorBubbleFg = Pair{Light: "#991B1B", Dark: "#FECACA"}
)

// SelectionBg highlights the current session in the sidebar.
var SelectionBg = Pair{Light: "#E0E7FF", Dark: "#312E81"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet holds ASCII indicators shown beside colored status text,
// so states stay distinguishable without color.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Active  string
}

// StatusIndicators is the default indicator set.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Active:  "[*]",
}
