// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// FallbackText replaces empty assistant content.
const FallbackText = "no response available"

var (
	fencedRe = regexp.MustCompile("(?s)```(.*?)```")
	inlineRe = regexp.MustCompile("`([^`]+)`")
	boldRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.*?)\*`)
	linkRe   = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	slotRe   = regexp.MustCompile("\x00([0-9]+)\x00")
)

// Format converts assistant text to HTML-ish markup.
//
// Steps run in this order and the order matters: fenced code blocks, inline
// code, bold, italic, links, line breaks. Code spans are replaced with
// opaque slots before bold and italic run, so "`a*b`" stays literal.
func Format(content string) string {
	if content == "" {
		return FallbackText
	}

	// NUL is the slot delimiter; it never appears in real text.
	text := html.EscapeString(strings.ReplaceAll(content, "\x00", ""))

	var slots []string
	stash := func(markup string) string {
		slots = append(slots, markup)
		return "\x00" + strconv.Itoa(len(slots)-1) + "\x00"
	}

	text = fencedRe.ReplaceAllStringFunc(text, func(m string) string {
		return stash("<pre><code>" + fencedRe.FindStringSubmatch(m)[1] + "</code></pre>")
	})
	text = inlineRe.ReplaceAllStringFunc(text, func(m string) string {
		return stash("<code>" + inlineRe.FindStringSubmatch(m)[1] + "</code>")
	})

	text = boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicRe.ReplaceAllString(text, "<em>$1</em>")
	text = linkRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := linkRe.FindStringSubmatch(m)
		return `<a href="` + safeHref(sub[2]) + `" target="_blank">` + sub[1] + `</a>`
	})
	text = strings.ReplaceAll(text, "\n", "<br>")

	return slotRe.ReplaceAllStringFunc(text, func(m string) string {
		i, err := strconv.Atoi(slotRe.FindStringSubmatch(m)[1])
		if err != nil || i >= len(slots) {
			return ""
		}
		return slots[i]
	})
}

// safeHref drops script-bearing schemes. The input is already escaped.
func safeHref(href string) string {
	h := strings.ToLower(strings.TrimSpace(href))
	for _, bad := range []string{"javascript:", "vbscript:", "data:"} {
		if strings.HasPrefix(h, bad) {
			return "#"
		}
	}
	return href
}

// Escape renders user text literally: markup characters are escaped and
// nothing is interpreted.
func Escape(content string) string {
	return html.EscapeString(content)
}
