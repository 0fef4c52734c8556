// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package artifact discovers tokenizer files next to a model
// configuration, copies them into the output directory, and optionally
// derives tokenizer.json from tokenizer.model through an external
// converter when only the legacy format is present.
package artifact
