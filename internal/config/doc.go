// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides tool-level settings for confgen. These are
// settings about how the tool itself behaves (logging, converter
// command, watch debounce, history); the resolved model document lives
// in package chatconfig.
//
// Settings are loaded from (in order of precedence):
//   - Environment variables (CONFGEN_*)
//   - ~/.confgen/config.toml
//   - Built-in defaults
package config
