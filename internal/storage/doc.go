// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists small client-side preferences: theme, the active
// teacher persona, teacher-mode flag and custom prompts.
//
// Values are plain strings keyed by name, like browser local storage: no
// expiry and no cross-process notification. Two implementations exist:
//
//   - SQLiteStore: a single-table sqlite database (pure Go driver)
//   - MemoryStore: in-process map for tests and --no-persist runs
//
// # Usage
//
//	prefs, err := storage.OpenSQLite(filepath.Join(dataDir, "prefs.db"))
//	defer prefs.Close()
//	_ = prefs.Set(storage.KeyTheme, "dark")
//	v, ok, err := prefs.Get(storage.KeyTheme)
package storage
