// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps a local ledger of completed generation runs in
// SQLite. Recording is advisory: a ledger failure is logged and never
// fails the run that produced the document.
package history
