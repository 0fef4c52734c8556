// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatconfig

import (
	"github.com/rs/zerolog"

	"github.com/lmforge/confgen/internal/util"
)

// =============================================================================
// LAYERED MERGE
// =============================================================================

// Layer is one source of candidate field values, consulted in a fixed
// precedence order during the merge. Keys the document does not declare
// are ignored, which keeps the merge forward-compatible with schema
// drift in the source files.
type Layer struct {
	Name   string
	Values map[string]any
}

// slot binds a document field name to its presence check and setter.
// The merge walks this fixed table instead of reflecting over struct
// fields, so the participating field set is explicit and ordered.
type slot struct {
	key   string
	isSet func(c *ChatConfig) bool
	set   func(c *ChatConfig, v any) bool
}

var slots = []slot{
	{"vocab_size", func(c *ChatConfig) bool { return c.VocabSize != nil }, setInt(func(c *ChatConfig) **int { return &c.VocabSize })},
	{"max_window_size", func(c *ChatConfig) bool { return c.MaxWindowSize != nil }, setInt(func(c *ChatConfig) **int { return &c.MaxWindowSize })},
	{"temperature", func(c *ChatConfig) bool { return c.Temperature != nil }, setFloat(func(c *ChatConfig) **float64 { return &c.Temperature })},
	{"repetition_penalty", func(c *ChatConfig) bool { return c.RepetitionPenalty != nil }, setFloat(func(c *ChatConfig) **float64 { return &c.RepetitionPenalty })},
	{"top_p", func(c *ChatConfig) bool { return c.TopP != nil }, setFloat(func(c *ChatConfig) **float64 { return &c.TopP })},
	{"mean_gen_len", func(c *ChatConfig) bool { return c.MeanGenLen != nil }, setInt(func(c *ChatConfig) **int { return &c.MeanGenLen })},
	{"max_gen_len", func(c *ChatConfig) bool { return c.MaxGenLen != nil }, setInt(func(c *ChatConfig) **int { return &c.MaxGenLen })},
	{"shift_fill_factor", func(c *ChatConfig) bool { return c.ShiftFillFactor != nil }, setFloat(func(c *ChatConfig) **float64 { return &c.ShiftFillFactor })},
	{"sliding_window", func(c *ChatConfig) bool { return c.SlidingWindow != nil }, setInt(func(c *ChatConfig) **int { return &c.SlidingWindow })},
	{"prefill_chunk_size", func(c *ChatConfig) bool { return c.PrefillChunkSize != nil }, setInt(func(c *ChatConfig) **int { return &c.PrefillChunkSize })},
	{"conv_template", func(c *ChatConfig) bool { return c.ConvTemplate != "" }, func(c *ChatConfig, v any) bool {
		s, ok := util.AsString(v)
		if ok {
			c.ConvTemplate = s
		}
		return ok
	}},
	{"pad_token_id", func(c *ChatConfig) bool { return c.PadTokenID != nil }, setInt(func(c *ChatConfig) **int { return &c.PadTokenID })},
	{"bos_token_id", func(c *ChatConfig) bool { return c.BosTokenID != nil }, setInt(func(c *ChatConfig) **int { return &c.BosTokenID })},
	{"eos_token_id", func(c *ChatConfig) bool { return c.EosTokenID != nil }, setInt(func(c *ChatConfig) **int { return &c.EosTokenID })},
}

func setInt(field func(c *ChatConfig) **int) func(c *ChatConfig, v any) bool {
	return func(c *ChatConfig, v any) bool {
		n, ok := util.AsInt(v)
		if ok {
			*field(c) = &n
		}
		return ok
	}
}

func setFloat(field func(c *ChatConfig) **float64) func(c *ChatConfig, v any) bool {
	return func(c *ChatConfig, v any) bool {
		f, ok := util.AsFloat(v)
		if ok {
			*field(c) = &f
		}
		return ok
	}
}

// MergeLayers fills every still-unset document field from the first
// layer that supplies a value for its key. Already-set fields are never
// overwritten; values of an incompatible type are skipped. The merge is
// a pure function of the document state and the ordered layer contents.
func (c *ChatConfig) MergeLayers(layers []Layer, log zerolog.Logger) {
	for _, s := range slots {
		if s.isSet(c) {
			continue
		}
		for _, layer := range layers {
			v, ok := layer.Values[s.key]
			if !ok || v == nil {
				continue
			}
			if !s.set(c, v) {
				log.Debug().Str("layer", layer.Name).Str("field", s.key).
					Msg("skipping value of incompatible type")
				continue
			}
			log.Info().Str("layer", layer.Name).Str("field", s.key).
				Interface("value", v).Msg("setting field")
			break
		}
	}
}
