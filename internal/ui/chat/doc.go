// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea chat interface.

The model holds no message list of its own. Every frame is drawn from the
application state: the transcript snapshot, the session list, the active
tool panel and the theme. Background work reports back through tea.Msg
values, and transcript changes arrive through a one-slot channel so a burst
of updates costs a single redraw.

# Layout

	+---------------------------------------------------------+
	| SAHPAATHI  Biology notes            [teacher: Socrates] |
	+------------+--------------------------------------------+
	| Sessions   | transcript viewport                        |
	| > Biology  |                                            |
	|   Algebra  |                      +--------------------+ |
	|            |                      | tool panel         | |
	+------------+--------------------------------------------+
	| > input                                                 |
	| status / shortcuts                                      |
	+---------------------------------------------------------+

# Keys

	Enter       send (or answer the open quiz question)
	Alt+Enter   newline
	Ctrl+B      toggle the session sidebar
	Ctrl+T      toggle light/dark theme
	Ctrl+N      new chat
	Ctrl+Up/Dn  move the sidebar cursor, Ctrl+O opens it
	Ctrl+Y      copy the last reply
	Esc         close the tool panel or help
	Ctrl+C      quit

Slash commands are listed by /help.
*/
package chat
