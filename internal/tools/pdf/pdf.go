// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pdf converts Markdown files and plain text to PDF on the server
// and fetches the results.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/logging"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/util"
)

const (
	// MaxFileSize caps uploads.
	MaxFileSize = 10 << 20

	// MaxDownloadSize caps a downloaded PDF.
	MaxDownloadSize = 50 << 20
)

var (
	ErrNoFile          = errors.New("no file selected")
	ErrNoText          = errors.New("no text provided")
	ErrUnsupportedFile = errors.New("only .md, .markdown and .txt files can be converted")
	ErrTooLarge        = errors.New("file is larger than 10 MiB")
	ErrPDFTooLarge     = errors.New("downloaded PDF is larger than 50 MiB")
)

// API is the server side of the converter.
type API interface {
	ConvertMarkdownToPDF(ctx context.Context, filename string, content io.Reader) (string, error)
	ConvertTextToPDF(ctx context.Context, text, title string) (string, error)
	Download(ctx context.Context, rawURL string, w io.Writer) (int64, error)
}

// Converter validates input locally before calling the server.
type Converter struct {
	api    API
	logger *log.Logger

	maxDownload int64
}

// New creates a converter. A nil logger discards.
func New(api API, logger *log.Logger) *Converter {
	return &Converter{
		api:         api,
		logger:      logging.Or(logger).With("component", "pdf"),
		maxDownload: MaxDownloadSize,
	}
}

// ConvertMarkdownFile uploads the file at path and returns the PDF URL.
func (c *Converter) ConvertMarkdownFile(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrNoFile
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
	default:
		return "", ErrUnsupportedFile
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoFile, path)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNoFile, path)
	}
	if info.Size() > MaxFileSize {
		return "", ErrTooLarge
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	u, err := c.api.ConvertMarkdownToPDF(ctx, filepath.Base(path), f)
	if err != nil {
		c.logger.Warn("markdown conversion failed", "file", path, "err", err)
		return "", err
	}
	c.logger.Info("markdown converted", "file", path, "url", u)
	return u, nil
}

// ConvertText sends text (and an optional title) and returns the PDF URL.
func (c *Converter) ConvertText(ctx context.Context, text, title string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	u, err := c.api.ConvertTextToPDF(ctx, text, strings.TrimSpace(title))
	if err != nil {
		c.logger.Warn("text conversion failed", "err", err)
		return "", err
	}
	return u, nil
}

// Download saves the PDF at rawURL. When dest is empty or a directory the
// file name comes from the URL. It returns the path written.
func (c *Converter) Download(ctx context.Context, rawURL, dest string) (string, error) {
	target := dest
	if target == "" {
		target = "."
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, FileName(rawURL))
	}

	var n int64
	err := util.AtomicWriteStream(target, 0o644, func(w io.Writer) error {
		var err error
		n, err = c.api.Download(ctx, rawURL, &cappedWriter{w: w, left: c.maxDownload})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrPDFTooLarge) {
			c.logger.Warn("pdf download too large", "url", rawURL, "limit", c.maxDownload)
			return "", ErrPDFTooLarge
		}
		return "", fmt.Errorf("save pdf: %w", err)
	}
	c.logger.Info("pdf saved", "path", target, "bytes", n)
	return target, nil
}

// cappedWriter fails once more than left bytes have been written.
type cappedWriter struct {
	w    io.Writer
	left int64
}

func (c *cappedWriter) Write(p []byte) (int, error) {
	if int64(len(p)) > c.left {
		return 0, ErrPDFTooLarge
	}
	n, err := c.w.Write(p)
	c.left -= int64(n)
	return n, err
}

// FileName derives a local file name from a PDF URL.
func FileName(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "" || name == "." || name == "/" {
		return "document.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
