// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatconfig

import "sort"

// convTemplates is the closed set of recognized conversation template
// identifiers. The catalog's content lives in the inference runtime;
// confgen only validates membership.
var convTemplates = map[string]bool{
	"chatml":                true,
	"open_hermes_mistral":   true,
	"llama_default":         true,
	"llama-2":               true,
	"mistral_default":       true,
	"gpt2":                  true,
	"codellama_completion":  true,
	"codellama_instruct":    true,
	"vicuna_v1.1":           true,
	"conv_one_shot":         true,
	"redpajama_chat":        true,
	"rwkv_world":            true,
	"rwkv":                  true,
	"gorilla":               true,
	"guanaco":               true,
	"dolly":                 true,
	"oasst":                 true,
	"stablelm":              true,
	"stablecode_completion": true,
	"stablecode_instruct":   true,
	"minigpt":               true,
	"moss":                  true,
	"LM":                    true,
	"stablelm-3b":           true,
	"gpt_bigcode":           true,
	"wizardlm_7b":           true,
	"wizard_coder_or_math":  true,
	"glm":                   true,
}

// IsConvTemplate reports whether name is a recognized conversation
// template identifier.
func IsConvTemplate(name string) bool {
	return convTemplates[name]
}

// ConvTemplates returns the recognized template identifiers, sorted.
func ConvTemplates() []string {
	names := make([]string, 0, len(convTemplates))
	for name := range convTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
