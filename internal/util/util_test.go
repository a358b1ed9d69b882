// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	data := []byte("hello, world!")

	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	if err := AtomicWriteFile(path, []byte("x"), 0644, 0700); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")

	if err := AtomicWriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0644); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("got %q, want %q", content, "updated")
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestAtomicWriteStream_FailureKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")
	if err := AtomicWriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatalf("setup write failed: %v", err)
	}

	boom := errors.New("boom")
	err := AtomicWriteStream(path, 0644, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped boom", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "old" {
		t.Errorf("got %q, want %q", content, "old")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the original file, found %d entries", len(entries))
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "What is photosynthesis?", 30, "What is photosynthesis?"},
		{"exact", strings.Repeat("a", 30), 30, strings.Repeat("a", 30)},
		{"long", strings.Repeat("a", 31), 30, strings.Repeat("a", 30) + "…"},
		{"trims", "  hello  ", 30, "hello"},
		{"multibyte", strings.Repeat("न", 35), 30, strings.Repeat("न", 30) + "…"},
		{"zero", "anything", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateName(tt.in, tt.max); got != tt.want {
				t.Errorf("TruncateName(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateName_NormalisesBeforeCounting(t *testing.T) {
	// "e" + combining acute is two runes before NFC, one after.
	decomposed := strings.Repeat("e\u0301", 30)
	got := TruncateName(decomposed, 30)
	if strings.HasSuffix(got, Ellipsis) {
		t.Errorf("expected no truncation after NFC, got %q", got)
	}
	if len([]rune(got)) != 30 {
		t.Errorf("expected 30 runes, got %d", len([]rune(got)))
	}
}

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("hello", 10); got != "hello" {
		t.Errorf("got %q", got)
	}
	got := TruncateWidth("日本語のテキスト", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("width %d exceeds 7: %q", w, got)
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if TruncateWidth("abc", 0) != "" {
		t.Error("expected empty string for zero width")
	}
}

func TestPadWidth(t *testing.T) {
	if got := PadWidth("ab", 4); got != "ab  " {
		t.Errorf("got %q", got)
	}
}
