// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the sahpaathi command line.

Running sahpaathi with no subcommand opens the full-screen chat when both
stdin and stdout are terminals, and the line-mode REPL otherwise. Every
other command is a one-shot call against the backend:

	sahpaathi                         chat (TUI or REPL)
	sahpaathi chat --plain            line-mode REPL
	sahpaathi sessions list           list sessions, most recent first
	sahpaathi history show [-s ID]    print a session's history
	sahpaathi pdf md notes.md         convert Markdown to PDF
	sahpaathi quiz chat --take        quiz yourself on the latest chat
	sahpaathi teacher use Socrates    turn on teacher mode
	sahpaathi export -f html          save the latest chat as HTML
	sahpaathi config set chat.reply_delay_ms 0

Commands that act on "a session" take --session; without it they use the
most recent one.

Colors are disabled for non-TTY output and when NO_COLOR is set.
*/
package cli
