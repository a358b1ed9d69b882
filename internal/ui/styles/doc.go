// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the SAHPAATHI TUI.

Colors are declared once as light/dark pairs (colors.go). A Theme resolves
every pair for one theme.Mode, so a toggle is a matter of building a new
Theme; nothing depends on the terminal's own background.

# Usage

	st := styles.New(app.Theme.Mode())
	header := st.Header.Width(width).Render("SAHPAATHI")

	// after ctrl+t
	st = styles.New(mode)

The color profile is detected with termenv. On terminals without color
support every style renders as plain text.
*/
package styles
