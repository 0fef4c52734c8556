// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatconfig

import "encoding/json"

// Version is the schema version stamped into every generated document.
const Version = "0.1.0"

// OutputFile is the name of the resolved configuration document.
const OutputFile = "chat-config.json"

// =============================================================================
// RESOLVED CONFIG
// =============================================================================

// ChatConfig is the resolved runtime configuration document. Pointer
// fields distinguish "unset" from a legitimate zero value; unset fields
// are omitted from the serialized JSON. Field order here is the
// serialization order of the document.
type ChatConfig struct {
	SchemaVersion string `json:"version"`

	ModelType    string         `json:"model_type,omitempty"`
	Quantization string         `json:"quantization,omitempty"`
	ModelConfig  map[string]any `json:"model_config,omitempty"`

	VocabSize     *int `json:"vocab_size,omitempty"`
	MaxWindowSize *int `json:"max_window_size,omitempty"`

	Temperature       *float64 `json:"temperature,omitempty"`
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`

	MeanGenLen       *int     `json:"mean_gen_len,omitempty"`
	MaxGenLen        *int     `json:"max_gen_len,omitempty"`
	ShiftFillFactor  *float64 `json:"shift_fill_factor,omitempty"`
	SlidingWindow    *int     `json:"sliding_window,omitempty"`
	PrefillChunkSize *int     `json:"prefill_chunk_size,omitempty"`

	ConvTemplate string `json:"conv_template,omitempty"`
	PadTokenID   *int   `json:"pad_token_id,omitempty"`
	BosTokenID   *int   `json:"bos_token_id,omitempty"`
	EosTokenID   *int   `json:"eos_token_id,omitempty"`

	// TokenizerFiles is always serialized, as an empty list when no
	// artifact was found.
	TokenizerFiles []string `json:"tokenizer_files"`
}

// New returns a document seeded with the schema version only.
func New() *ChatConfig {
	return &ChatConfig{
		SchemaVersion:  Version,
		TokenizerFiles: []string{},
	}
}

// MarshalIndent serializes the document with the 2-space indentation the
// inference runtime expects.
func (c *ChatConfig) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// =============================================================================
// SYSTEM DEFAULTS
// =============================================================================

// DefaultsLayer is the lowest-precedence source of field values,
// consulted only for fields no other layer supplied.
func DefaultsLayer() Layer {
	return Layer{
		Name: "system default",
		Values: map[string]any{
			// Conversation token ids
			"pad_token_id": 0,
			"bos_token_id": 1,
			"eos_token_id": 2,
			// Text generation
			"temperature":        0.7,
			"repetition_penalty": 1.0,
			"top_p":              0.95,
			// Runtime behavior
			"mean_gen_len":      128,
			"max_gen_len":       512,
			"shift_fill_factor": 0.3,
		},
	}
}
