// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold and code", "**bold** and `code`", "<strong>bold</strong> and <code>code</code>"},
		{"star inside code", "`a*b`", "<code>a*b</code>"},
		{"stars inside code with italics around", "*x* `a*b*c` *y*", "<em>x</em> <code>a*b*c</code> <em>y</em>"},
		{"italic", "an *idea*", "an <em>idea</em>"},
		{"fenced block keeps newlines", "```\nx := 1\ny := **2**\n```", "<pre><code>\nx := 1\ny := **2**\n</code></pre>"},
		{"fenced before inline", "```a `b` c```", "<pre><code>a `b` c</code></pre>"},
		{"link", "[docs](https://example.com)", `<a href="https://example.com" target="_blank">docs</a>`},
		{"line breaks", "one\ntwo", "one<br>two"},
		{"escapes html", "<script>x</script>", "&lt;script&gt;x&lt;/script&gt;"},
		{"escapes inside code", "`<b>`", "<code>&lt;b&gt;</code>"},
		{"javascript link neutralised", "[x](javascript:alert(1))", `<a href="#" target="_blank">x</a>)`},
		{"nul stripped", "a\x00b", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormat_EmptyUsesFallback(t *testing.T) {
	assert.Equal(t, FallbackText, Format(""))
	assert.Equal(t, "no response available", FallbackText)
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		h, m int
		want string
	}{
		{0, 5, "12:05 AM"},
		{9, 7, "9:07 AM"},
		{12, 0, "12:00 PM"},
		{13, 30, "1:30 PM"},
		{23, 59, "11:59 PM"},
	}
	for _, tt := range tests {
		ts := time.Date(2025, 1, 2, tt.h, tt.m, 0, 0, time.Local)
		assert.Equal(t, tt.want, FormatTime(ts))
	}
}

func TestRender_UserIsLiteral(t *testing.T) {
	r := NewRenderer()
	ts := time.Date(2025, 1, 2, 14, 3, 0, 0, time.Local)

	e := r.Render(RoleUser, "**not bold** <i>", ts)
	assert.Equal(t, KindUser, e.Kind)
	assert.Equal(t, RoleUser, e.Role())
	assert.Equal(t, "**not bold** &lt;i&gt;", e.Markup)
	assert.Equal(t, "**not bold** <i>", e.Text)
	assert.Equal(t, "2:03 PM", e.Time)
	assert.NotEmpty(t, e.ID)
}

func TestRender_AIIsFormatted(t *testing.T) {
	r := NewRenderer()
	e := r.Render(RoleAI, "**yes**", time.Now())
	assert.Equal(t, KindAI, e.Kind)
	assert.Equal(t, "<strong>yes</strong>", e.Markup)

	empty := r.Render(RoleAI, "", time.Now())
	assert.Equal(t, FallbackText, empty.Markup)
	assert.Equal(t, FallbackText, empty.Text)
}

func TestRender_ZeroRenderer(t *testing.T) {
	var r Renderer
	a := r.Render(RoleUser, "x", time.Now())
	b := r.Render(RoleUser, "x", time.Now())
	assert.NotEqual(t, a.ID, b.ID)
}
