// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompts is the prompt library: a fixed set of study prompts plus
// user prompts persisted under customPrompts.
package prompts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/logging"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/storage"
)

var (
	ErrInvalid   = errors.New("prompt needs a title and text")
	ErrDuplicate = errors.New("a prompt with that title already exists")
	ErrBuiltin   = errors.New("built-in prompts cannot be removed")
	ErrUnknown   = errors.New("no such prompt")
)

// Builtins ship with the client.
var Builtins = []model.Prompt{
	{Title: "Explain simply", Text: "Explain this topic as if I am new to it, with one everyday example:"},
	{Title: "Summarize notes", Text: "Summarize the following notes into short bullet points:"},
	{Title: "Step by step", Text: "Solve this problem step by step and explain each step:"},
	{Title: "Practice questions", Text: "Give me five practice questions, with answers at the end, on:"},
	{Title: "Compare", Text: "Compare and contrast the following two ideas in a table:"},
	{Title: "Memory aid", Text: "Suggest a mnemonic to remember:"},
}

// Entry is a prompt with its origin.
type Entry struct {
	model.Prompt
	Custom bool
}

// Library holds the custom prompts in memory and writes through to prefs.
type Library struct {
	prefs  storage.Prefs
	logger *log.Logger

	mu     sync.RWMutex
	custom []model.Prompt
}

// New loads the library. A corrupt customPrompts value is logged and
// treated as empty; it is overwritten on the next Add or Remove.
func New(prefs storage.Prefs, logger *log.Logger) *Library {
	l := &Library{prefs: prefs, logger: logging.Or(logger).With("component", "prompts")}
	var custom []model.Prompt
	if _, err := storage.GetJSON(prefs, storage.KeyCustomPrompts, &custom); err != nil {
		l.logger.Warn("ignoring unreadable custom prompts", "err", err)
		custom = nil
	}
	l.custom = custom
	return l
}

// List returns builtins followed by custom prompts.
func (l *Library) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, 0, len(Builtins)+len(l.custom))
	for _, p := range Builtins {
		out = append(out, Entry{Prompt: p})
	}
	for _, p := range l.custom {
		out = append(out, Entry{Prompt: p, Custom: true})
	}
	return out
}

// Find looks a prompt up by 1-based position in List or by title.
func (l *Library) Find(ref string) (Entry, bool) {
	ref = strings.TrimSpace(ref)
	list := l.List()
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(list) {
			return list[n-1], true
		}
		return Entry{}, false
	}
	for _, e := range list {
		if strings.EqualFold(e.Title, ref) {
			return e, true
		}
	}
	return Entry{}, false
}

// Add saves a custom prompt.
func (l *Library) Add(title, text string) error {
	title, text = strings.TrimSpace(title), strings.TrimSpace(text)
	if title == "" || text == "" {
		return ErrInvalid
	}
	if _, ok := l.Find(title); ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, title)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	next := append(append([]model.Prompt(nil), l.custom...), model.Prompt{Title: title, Text: text})
	if err := storage.SetJSON(l.prefs, storage.KeyCustomPrompts, next); err != nil {
		return err
	}
	l.custom = next
	return nil
}

// Remove deletes a custom prompt by title or position.
func (l *Library) Remove(ref string) error {
	e, ok := l.Find(ref)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknown, ref)
	}
	if !e.Custom {
		return ErrBuiltin
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]model.Prompt, 0, len(l.custom))
	for _, p := range l.custom {
		if !strings.EqualFold(p.Title, e.Title) {
			next = append(next, p)
		}
	}
	if err := storage.SetJSON(l.prefs, storage.KeyCustomPrompts, next); err != nil {
		return err
	}
	l.custom = next
	return nil
}
