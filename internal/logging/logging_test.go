// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, log.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, log.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, log.InfoLevel, ParseLevel(""))
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "logfmt")

	l.Info("hidden")
	l.Warn("shown", "session", "s1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "session=s1")
}

func TestOpen_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sahpaathi.log")
	l, err := Open(Options{Path: path, Level: "debug"})
	require.NoError(t, err)

	l.Debug("hello", "k", "v")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "logger initialized")
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	l, err := Open(Options{})
	require.NoError(t, err)
	l.Error("dropped")
	assert.NoError(t, l.Close())
}

func TestOr(t *testing.T) {
	assert.NotNil(t, Or(nil))
	l := Discard()
	assert.Same(t, l, Or(l))
}
