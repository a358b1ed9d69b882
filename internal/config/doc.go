// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and manages sahpaathi configuration.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SAHPAATHI_*), including any set by a .env file
//     in the working directory or the config directory
//   - ~/.sahpaathi/config.toml
//   - ~/.sahpaathi/config.json
//   - Built-in defaults
//
// SAHPAATHI_HOME moves the config directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := api.NewClientWithConfig(&api.ClientConfig{
//	    BaseURL: cfg.Server.BaseURL,
//	    Timeout: cfg.Timeout(),
//	})
//
// Values can be read and written with dot notation:
//
//	v, _ := cfg.Get("chat.reply_delay_ms")
//	_ = cfg.Set("ui.sidebar_open", "true")
//
// A Watcher reloads the file when it changes on disk.
package config
