// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatconfig resolves the chat-config.json document for a model.
//
// Values are gathered from several sources in strict precedence order:
//
//   - seed values computed from the model schema (highest)
//   - the derived model configuration
//   - generation_config.json next to the model configuration (optional)
//   - built-in system defaults (lowest)
//
// Once a field is set by a higher layer it is never overwritten
// (first-write-wins). Fields no layer supplies stay absent and are
// omitted from the serialized document entirely; absence, not null,
// represents "unset".
package chatconfig
