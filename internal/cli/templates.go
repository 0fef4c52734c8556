// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/lmforge/confgen/internal/chatconfig"
)

// HandleTemplates prints the conversation template catalog, one name
// per line.
func HandleTemplates() {
	for _, name := range chatconfig.ConvTemplates() {
		fmt.Println(name)
	}
}
