// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools holds the tool panel registry.
//
// Tool panels (PDF conversion, quiz, teacher mode, prompt library) are
// independent overlays. At most one is active at a time; showing one hides
// whichever was showing before. The panels' behaviour lives in the
// subpackages:
//
//   - pdf: Markdown file and plain text to PDF
//   - quiz: quizzes from a chat or a syllabus, question papers, scoring
//   - teacher: persona selection and the outgoing prompt prefix
//   - prompts: builtin and custom prompt library
//
// Unknown tool names are soft no-ops: Show, Hide and Toggle report false.
package tools
