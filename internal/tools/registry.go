// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"sort"
	"strings"
	"sync"
)

// Built-in panel names.
const (
	PDF     = "pdf"
	Quiz    = "quiz"
	Teacher = "teacher"
	Prompts = "prompts"
)

// =============================================================================
// TOOL DEFINITION
// =============================================================================

// Tool describes one overlay panel.
type Tool struct {
	// Name is the identifier used by Show/Hide ("pdf", "quiz", ...).
	Name string

	// Title is shown in the panel header.
	Title string

	// Description is a one-line summary for /help.
	Description string

	// Order sorts tools in listings; ties sort by name.
	Order int

	// OnShow and OnHide are optional hooks run after the state changes.
	OnShow func()
	OnHide func()
}

// =============================================================================
// TOOL REGISTRY
// =============================================================================

// Registry holds the tool panels and which one is active.
type Registry struct {
	mu     sync.Mutex
	tools  map[string]*Tool
	active string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// NewDefaultRegistry creates a registry with the four built-in panels.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterBuiltins()
	return r
}

// RegisterBuiltins registers the built-in panels.
func (r *Registry) RegisterBuiltins() {
	r.Register(&Tool{Name: PDF, Title: "PDF Converter", Description: "Convert a Markdown file or text to PDF", Order: 1})
	r.Register(&Tool{Name: Quiz, Title: "Quiz", Description: "Quiz yourself on this chat or a syllabus", Order: 2})
	r.Register(&Tool{Name: Teacher, Title: "Teacher Mode", Description: "Answer in the voice of a teacher persona", Order: 3})
	r.Register(&Tool{Name: Prompts, Title: "Prompt Library", Description: "Reuse saved prompts", Order: 4})
}

// Register adds or replaces a tool. Names are case-insensitive.
func (r *Registry) Register(tool *Tool) {
	if tool == nil || tool.Name == "" {
		return
	}
	key := normalize(tool.Name)
	r.mu.Lock()
	r.tools[key] = tool
	r.mu.Unlock()
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tools[normalize(name)]
	return t, ok
}

// All returns every registered tool in display order.
func (r *Registry) All() []*Tool {
	r.mu.Lock()
	out := make([]*Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// =============================================================================
// VISIBILITY
// =============================================================================

// Show makes name the active panel, hiding the previous one. It reports
// false for unknown names and leaves the current panel showing.
func (r *Registry) Show(name string) bool {
	key := normalize(name)

	r.mu.Lock()
	next, ok := r.tools[key]
	if !ok {
		r.mu.Unlock()
		return false
	}
	if r.active == key {
		r.mu.Unlock()
		return true
	}
	prev := r.tools[r.active]
	r.active = key
	r.mu.Unlock()

	if prev != nil && prev.OnHide != nil {
		prev.OnHide()
	}
	if next.OnShow != nil {
		next.OnShow()
	}
	return true
}

// Hide closes name if it is the active panel. It reports whether a panel
// was closed.
func (r *Registry) Hide(name string) bool {
	key := normalize(name)

	r.mu.Lock()
	if r.active == "" || r.active != key {
		r.mu.Unlock()
		return false
	}
	t := r.tools[key]
	r.active = ""
	r.mu.Unlock()

	if t != nil && t.OnHide != nil {
		t.OnHide()
	}
	return true
}

// HideAll closes whichever panel is active.
func (r *Registry) HideAll() {
	if name, ok := r.Active(); ok {
		r.Hide(name)
	}
}

// Toggle shows name if hidden and hides it if showing. Unknown names
// report false.
func (r *Registry) Toggle(name string) bool {
	if r.IsActive(name) {
		return r.Hide(name)
	}
	return r.Show(name)
}

// IsActive reports whether name is the panel currently showing.
func (r *Registry) IsActive(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != "" && r.active == normalize(name)
}

// Active returns the name of the panel currently showing.
func (r *Registry) Active() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.active != ""
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
