// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatconfig

// Normalize enforces the output invariants on a merged document:
//
//   - sliding_window and max_window_size are mutually exclusive; when a
//     sliding window is set, max_window_size is dropped even if it was
//     requested explicitly (sliding-window mode supersedes the fixed
//     window)
//   - tokenizer_files serializes as an empty list, never null
//
// Unset pointer fields already serialize as absent, so no further
// stripping is needed here. Normalize is total and idempotent.
func (c *ChatConfig) Normalize() {
	if c.SlidingWindow != nil {
		c.MaxWindowSize = nil
	}
	if c.TokenizerFiles == nil {
		c.TokenizerFiles = []string{}
	}
}
