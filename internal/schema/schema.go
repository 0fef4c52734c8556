// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package schema

import (
	"fmt"
	"sort"

	"github.com/lmforge/confgen/internal/util"
)

// =============================================================================
// MODEL CONFIG
// =============================================================================

// ModelConfig holds the shape parameters derived from a raw model
// configuration document. A nil field means the document did not define
// the value and no override supplied one.
type ModelConfig struct {
	Family            string
	VocabSize         *int
	ContextWindowSize *int
	SlidingWindow     *int
	PrefillChunkSize  *int
}

// Overrides carries explicit user-supplied replacement values for the
// shape parameters. Nil fields leave the derived value untouched.
type Overrides struct {
	ContextWindowSize *int
	SlidingWindow     *int
	PrefillChunkSize  *int
}

// ApplyOverrides overwrites the model config in place with every
// non-nil override value. No validation happens here; the sliding
// window / context window exclusivity is enforced during normalization.
func (mc *ModelConfig) ApplyOverrides(ov Overrides) {
	if ov.ContextWindowSize != nil {
		mc.ContextWindowSize = ov.ContextWindowSize
	}
	if ov.SlidingWindow != nil {
		mc.SlidingWindow = ov.SlidingWindow
	}
	if ov.PrefillChunkSize != nil {
		mc.PrefillChunkSize = ov.PrefillChunkSize
	}
}

// Validate reports whether the required shape parameters could be
// derived. Called after overrides have been applied, so an override can
// satisfy a requirement the raw document missed.
func (mc *ModelConfig) Validate() error {
	if mc.VocabSize == nil {
		return fmt.Errorf("model family %q: cannot derive vocab_size from model configuration", mc.Family)
	}
	if mc.ContextWindowSize == nil && mc.SlidingWindow == nil {
		return fmt.Errorf("model family %q: cannot derive a window size; set --context-window-size or --sliding-window", mc.Family)
	}
	return nil
}

// Fields exposes the derived parameters as a merge layer keyed by
// document field name. vocab_size is included for parity with the
// document even though the seed record normally sets it first.
func (mc *ModelConfig) Fields() map[string]any {
	m := make(map[string]any)
	if mc.VocabSize != nil {
		m["vocab_size"] = *mc.VocabSize
	}
	if mc.SlidingWindow != nil {
		m["sliding_window"] = *mc.SlidingWindow
	}
	if mc.PrefillChunkSize != nil {
		m["prefill_chunk_size"] = *mc.PrefillChunkSize
	}
	return m
}

// =============================================================================
// FAMILY REGISTRY
// =============================================================================

// familyDef names the raw-document keys a model family uses for each
// shape parameter. Keys are tried in order; the first present wins.
type familyDef struct {
	vocabKeys   []string
	contextKeys []string
	slidingKeys []string
	prefillKeys []string
}

var families = map[string]familyDef{
	"llama": {
		vocabKeys:   []string{"vocab_size"},
		contextKeys: []string{"context_window_size", "max_position_embeddings", "max_sequence_length"},
		prefillKeys: []string{"prefill_chunk_size"},
	},
	"mistral": {
		vocabKeys:   []string{"vocab_size"},
		contextKeys: []string{"context_window_size", "max_position_embeddings"},
		slidingKeys: []string{"sliding_window"},
		prefillKeys: []string{"prefill_chunk_size"},
	},
	"gpt2": {
		vocabKeys:   []string{"vocab_size"},
		contextKeys: []string{"context_window_size", "n_ctx", "n_positions"},
		prefillKeys: []string{"prefill_chunk_size"},
	},
	"gpt_bigcode": {
		vocabKeys:   []string{"vocab_size"},
		contextKeys: []string{"context_window_size", "n_positions"},
		prefillKeys: []string{"prefill_chunk_size"},
	},
	"gpt_neox": {
		vocabKeys:   []string{"vocab_size"},
		contextKeys: []string{"context_window_size", "max_position_embeddings"},
		prefillKeys: []string{"prefill_chunk_size"},
	},
	"phi": {
		vocabKeys:   []string{"vocab_size"},
		contextKeys: []string{"context_window_size", "max_position_embeddings", "n_positions"},
		prefillKeys: []string{"prefill_chunk_size"},
	},
}

// Families returns the supported model family names, sorted.
func Families() []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFamily reports whether name is a supported model family.
func IsFamily(name string) bool {
	_, ok := families[name]
	return ok
}

// Parse derives a ModelConfig from a raw configuration document.
// Parsing is lenient: missing keys leave fields nil so an override can
// still supply them; Validate catches what remains unset.
func Parse(family string, raw map[string]any) (*ModelConfig, error) {
	def, ok := families[family]
	if !ok {
		return nil, fmt.Errorf("unknown model family %q (supported: %v)", family, Families())
	}

	mc := &ModelConfig{Family: family}
	mc.VocabSize = intFromKeys(raw, def.vocabKeys)
	mc.ContextWindowSize = intFromKeys(raw, def.contextKeys)
	mc.SlidingWindow = intFromKeys(raw, def.slidingKeys)
	mc.PrefillChunkSize = intFromKeys(raw, def.prefillKeys)
	return mc, nil
}

func intFromKeys(raw map[string]any, keys []string) *int {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if n, ok := util.AsInt(v); ok {
			return &n
		}
	}
	return nil
}

// =============================================================================
// QUANTIZATION
// =============================================================================

// quantizations is the closed set of recognized quantization scheme names.
var quantizations = map[string]bool{
	"q0f16":     true,
	"q0f32":     true,
	"q3f16_1":   true,
	"q4f16_1":   true,
	"q4f32_1":   true,
	"q4f16_awq": true,
}

// IsQuantization reports whether name is a recognized quantization scheme.
func IsQuantization(name string) bool {
	return quantizations[name]
}

// Quantizations returns the recognized quantization scheme names, sorted.
func Quantizations() []string {
	names := make([]string, 0, len(quantizations))
	for name := range quantizations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
