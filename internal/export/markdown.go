// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// frontMatter is the YAML header written above the transcript.
type frontMatter struct {
	Title     string `yaml:"title"`
	SessionID string `yaml:"session_id"`
	Messages  int    `yaml:"messages"`
	Exported  string `yaml:"exported,omitempty"`
	Generator string `yaml:"generator"`
}

// MarkdownExporter exports conversations to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a conversation to Markdown. Replies are already Markdown
// and are written as-is.
func (e *MarkdownExporter) Export(conv Conversation) ([]byte, error) {
	if len(conv.Messages) == 0 {
		return nil, ErrEmpty
	}

	var sb strings.Builder
	if e.options.IncludeMetadata {
		fm := frontMatter{
			Title:     conv.Title(),
			SessionID: conv.Session.ID,
			Messages:  len(conv.Messages),
			Generator: "sahpaathi",
		}
		if !conv.ExportedAt.IsZero() {
			fm.Exported = conv.ExportedAt.Format(time.RFC3339)
		}
		head, err := yaml.Marshal(fm)
		if err != nil {
			return nil, fmt.Errorf("encode front matter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(head)
		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(conv.Title()))

	for i, msg := range conv.Messages {
		fmt.Fprintf(&sb, "### %s\n\n", roleLabel(msg.Role))
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")
		if i < len(conv.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}
	return []byte(sb.String()), nil
}

func (e *MarkdownExporter) FileExtension() string { return ".md" }

func (e *MarkdownExporter) MimeType() string { return "text/markdown" }

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes characters that would change a heading.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer("#", `\#`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`)
	return r.Replace(s)
}
