// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/lmforge/confgen/internal/artifact"
	"github.com/lmforge/confgen/internal/schema"
	"github.com/lmforge/confgen/internal/util"
)

// GenerationConfigFile is the optional secondary settings document
// looked up next to the model configuration.
const GenerationConfigFile = "generation_config.json"

// Request carries everything one generation run needs. The pipeline is
// strictly sequential and owns its ChatConfig exclusively; nothing is
// shared across invocations.
type Request struct {
	// ConfigPath is the model's config.json. Its directory is also
	// scanned for generation_config.json and tokenizer artifacts.
	ConfigPath string

	ModelType    string
	Quantization string
	ConvTemplate string

	Overrides schema.Overrides

	// OutputDir receives the artifact copies and chat-config.json.
	OutputDir string

	// Converter is the optional tokenizer conversion capability.
	Converter artifact.Converter

	Log zerolog.Logger
}

// Generate resolves and writes the chat-config.json document.
//
// Only two failure classes abort the run: an unparseable model
// configuration and required shape parameters that neither the schema
// nor an override can supply. Everything else degrades to a log entry.
// On error no output document is written.
func Generate(ctx context.Context, req Request) (*ChatConfig, error) {
	log := req.Log

	data, err := os.ReadFile(req.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model configuration: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed model configuration %s: %w", req.ConfigPath, err)
	}

	mc, err := schema.Parse(req.ModelType, raw)
	if err != nil {
		return nil, err
	}
	mc.ApplyOverrides(req.Overrides)
	if err := mc.Validate(); err != nil {
		return nil, err
	}

	// Seed record: identity and schema-derived values outrank every
	// merge layer below.
	cfg := New()
	cfg.ModelType = req.ModelType
	cfg.Quantization = req.Quantization
	cfg.ModelConfig = raw
	cfg.ConvTemplate = req.ConvTemplate
	cfg.VocabSize = mc.VocabSize
	cfg.MaxWindowSize = mc.ContextWindowSize

	layers := []Layer{
		{Name: "config.json", Values: mc.Fields()},
		generationLayer(filepath.Dir(req.ConfigPath), log),
		DefaultsLayer(),
	}
	cfg.MergeLayers(layers, log)

	resolver := artifact.NewResolver(req.Converter, log)
	files, err := resolver.Resolve(ctx, filepath.Dir(req.ConfigPath), req.OutputDir)
	if err != nil {
		return nil, err
	}
	cfg.TokenizerFiles = files

	cfg.Normalize()
	if cfg.SlidingWindow != nil {
		log.Info().Msg("sliding window set, dropping max_window_size")
	}

	if err := WriteDocument(cfg, req.OutputDir); err != nil {
		return nil, err
	}
	log.Info().Str("path", filepath.Join(req.OutputDir, OutputFile)).Msg("wrote configuration document")
	return cfg, nil
}

// generationLayer loads generation_config.json from dir. A missing or
// unreadable file is not an error; the layer just contributes nothing.
func generationLayer(dir string, log zerolog.Logger) Layer {
	layer := Layer{Name: GenerationConfigFile, Values: map[string]any{}}

	path := filepath.Join(dir, GenerationConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Info().Str("path", path).Msg("generation_config.json not found")
		return layer
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("ignoring malformed generation_config.json")
		return layer
	}

	log.Info().Str("path", path).Msg("found generation_config.json")
	layer.Values = values
	return layer
}

// WriteDocument serializes cfg into dir atomically. The document only
// ever appears complete at its final path.
func WriteDocument(cfg *ChatConfig, dir string) error {
	data, err := cfg.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to encode configuration document: %w", err)
	}
	path := filepath.Join(dir, OutputFile)
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration document: %w", err)
	}
	return nil
}
