// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across sahpaathi packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateName: NFC-normalised, rune-safe truncation used for session names
//   - TruncateWidth: display-width truncation for the sidebar (CJK aware)
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	name := util.TruncateName(firstQuestion, 30)
//	label := util.TruncateWidth(name, 24)
//	err := util.AtomicWriteFile(path, data, 0644)
package util
