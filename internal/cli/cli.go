// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdGenerate Command = iota
	CmdTemplates
	CmdHistory
	CmdVersion
	CmdHelp
)

// Parse reads os.Args and returns the command plus a parser over the
// remaining arguments.
func Parse() (Command, *ArgParser) {
	if len(os.Args) < 2 {
		return CmdHelp, NewArgParser(nil)
	}

	args := NewArgParser(os.Args[2:])
	switch os.Args[1] {
	case "generate", "gen":
		return CmdGenerate, args
	case "templates":
		return CmdTemplates, args
	case "history":
		return CmdHistory, args
	case "version", "--version", "-v":
		return CmdVersion, args
	default:
		return CmdHelp, args
	}
}

// HandleVersion prints build information.
func HandleVersion() {
	fmt.Printf("confgen %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(`confgen - resolved chat-runtime configuration generator

Usage:
  confgen generate --config PATH --model-type NAME --quantization NAME --conv-template NAME [flags]
  confgen templates
  confgen history [--limit N]
  confgen version

Generate flags:
  --config PATH               model config.json (required)
  --model-type NAME           model family (required)
  --quantization NAME         quantization scheme (required)
  --conv-template NAME        conversation template (required)
  --context-window-size N     override the context window size
  --sliding-window N          override the sliding window size
  --prefill-chunk-size N      override the prefill chunk size
  --output DIR                output directory (default "dist")
  --watch                     regenerate when source documents change
  --verbose                   debug logging
  --quiet                     errors only
`)
}
