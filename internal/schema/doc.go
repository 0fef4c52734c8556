// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package schema maps raw model configuration documents onto the shape
// parameters the resolver needs.
//
// Each supported model family names the keys in its config.json that
// carry the vocabulary size, context window, sliding window and prefill
// chunk size. Families are a closed set; unknown keys in the raw
// document are preserved but otherwise ignored.
package schema
