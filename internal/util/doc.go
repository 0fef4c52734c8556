// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for confgen: atomic file
// writes and coercion of untyped JSON values into the numeric types the
// configuration resolver works with.
package util
