// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging opens the application's file logger. The TUI owns the
// terminal, so log output always goes to a file (or nowhere).
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures Open.
type Options struct {
	// Path of the log file. Empty disables logging.
	Path string

	// Level is one of debug, info, warn, error (default info).
	Level string

	// Format is "text" (default), "logfmt" or "json".
	Format string
}

// File is a logger bound to an open log file.
type File struct {
	*log.Logger
	f *os.File
}

// Open creates the parent directory, opens Path for appending and returns a
// logger writing to it. With an empty Path the logger discards everything.
func Open(opts Options) (*File, error) {
	if opts.Path == "" {
		return &File{Logger: Discard()}, nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", opts.Path, err)
	}

	l := New(f, opts.Level, opts.Format)
	l.Info("logger initialized", "path", opts.Path)
	return &File{Logger: l, f: f}, nil
}

// Close flushes and closes the underlying file.
func (l *File) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	return l.f.Close()
}

// New returns a logger writing to w at the given level and format.
func New(w io.Writer, level, format string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           ParseLevel(level),
		Formatter:       parseFormat(format),
	})
	return l
}

// Discard returns a logger that drops everything. Components fall back to
// it when no logger is supplied.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Or returns l, or a discarding logger when l is nil.
func Or(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func parseFormat(s string) log.Formatter {
	switch strings.ToLower(s) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
