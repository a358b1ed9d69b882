// sahpaathi - SAHPAATHI study companion for the terminal.
//
// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import "github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/cli"

// Version information (set at build time)
//
//	go build -ldflags "-X main.Version=0.4.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildDate=$(date -u +%F)"
var (
	Version   = "0.1.0"
	GitCommit = ""
	BuildDate = ""
)

func main() {
	cli.Execute(cli.BuildInfo{
		Version: Version,
		Commit:  GitCommit,
		Date:    BuildDate,
	})
}
