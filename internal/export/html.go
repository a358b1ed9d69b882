// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a standalone HTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export renders the page. Replies go through render.Format, user text is
// escaped literally.
func (e *HTMLExporter) Export(conv Conversation) ([]byte, error) {
	if len(conv.Messages) == 0 {
		return nil, ErrEmpty
	}
	theme := "light"
	if e.options.Theme == "dark" {
		theme = "dark"
	}
	title := html.EscapeString(conv.Title())

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", title)
	sb.WriteString("    <meta name=\"generator\" content=\"sahpaathi\">\n")
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", theme)
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString("        <header class=\"header\">\n")
		fmt.Fprintf(&sb, "            <h1>%s</h1>\n", title)
		sb.WriteString("            <div class=\"metadata\">\n")
		fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>Session:</strong> %s</span>\n", html.EscapeString(conv.Session.ID))
		fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(conv.Messages))
		sb.WriteString("            </div>\n        </header>\n")
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range conv.Messages {
		e.renderMessage(&sb, msg)
	}
	sb.WriteString("        </main>\n")

	if !conv.ExportedAt.IsZero() {
		sb.WriteString("        <footer class=\"footer\">\n")
		fmt.Fprintf(&sb, "            <p>Exported from <strong>SAHPAATHI</strong> on %s</p>\n",
			conv.ExportedAt.Format("January 2, 2006 at 3:04 PM"))
		sb.WriteString("        </footer>\n")
	}
	sb.WriteString("    </div>\n</body>\n</html>\n")
	return []byte(sb.String()), nil
}

func (e *HTMLExporter) FileExtension() string { return ".html" }

func (e *HTMLExporter) MimeType() string { return "text/html" }

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderMessage(sb *strings.Builder, msg model.Message) {
	class, content := "user", render.Escape(msg.Content)
	if msg.Role.IsAssistant() {
		class, content = "ai", render.Format(msg.Content)
	}
	fmt.Fprintf(sb, "            <div class=\"message %s-message\">\n", class)
	fmt.Fprintf(sb, "                <div class=\"message-header\"><span class=\"role-label\">%s</span></div>\n", roleLabel(msg.Role))
	fmt.Fprintf(sb, "                <div class=\"message-content\">%s</div>\n", content)
	sb.WriteString("            </div>\n")
}

const css = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        .light-theme {
            --bg: #f4f6fb;
            --panel: #ffffff;
            --text: #1f2937;
            --muted: #6b7280;
            --user-bg: #4f46e5;
            --user-text: #ffffff;
            --ai-bg: #eef2ff;
            --code-bg: #f3f4f6;
            --accent: #4f46e5;
        }

        .dark-theme {
            --bg: #111827;
            --panel: #1f2937;
            --text: #e5e7eb;
            --muted: #9ca3af;
            --user-bg: #6366f1;
            --user-text: #ffffff;
            --ai-bg: #374151;
            --code-bg: #111827;
            --accent: #a5b4fc;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            line-height: 1.6;
            color: var(--text);
            background: var(--bg);
            padding: 20px;
        }

        .container { max-width: 860px; margin: 0 auto; background: var(--panel); border-radius: 12px; overflow: hidden; }
        .header { padding: 28px 32px; border-bottom: 1px solid var(--muted); }
        .header h1 { font-size: 26px; margin-bottom: 12px; }
        .metadata { display: flex; gap: 16px; font-size: 14px; color: var(--muted); }
        .conversation { padding: 24px 32px; display: flex; flex-direction: column; gap: 16px; }
        .message { max-width: 80%; padding: 12px 16px; border-radius: 14px; }
        .user-message { align-self: flex-end; background: var(--user-bg); color: var(--user-text); }
        .ai-message { align-self: flex-start; background: var(--ai-bg); }
        .role-label { font-size: 12px; font-weight: 600; opacity: 0.8; }
        .message-content { white-space: normal; word-wrap: break-word; }
        code { font-family: "SF Mono", Menlo, Consolas, monospace; background: var(--code-bg); padding: 1px 4px; border-radius: 4px; }
        pre { background: var(--code-bg); padding: 12px; border-radius: 8px; overflow-x: auto; margin: 8px 0; }
        pre code { padding: 0; white-space: pre; }
        a { color: var(--accent); }
        .footer { padding: 16px 32px; font-size: 13px; color: var(--muted); border-top: 1px solid var(--muted); }
    </style>
`
