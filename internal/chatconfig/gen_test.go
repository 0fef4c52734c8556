// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatconfig

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmforge/confgen/internal/schema"
)

// passthroughConverter pretends a conversion capability is installed.
type passthroughConverter struct{}

func (passthroughConverter) Convert(ctx context.Context, srcDir, dstPath string) error {
	return os.WriteFile(dstPath, []byte(`{"converted":true}`), 0644)
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func llamaRequest(t *testing.T, srcDir, outDir string) Request {
	t.Helper()
	writeJSON(t, filepath.Join(srcDir, "config.json"), map[string]any{
		"vocab_size":              32000,
		"max_position_embeddings": 4096,
		"torch_dtype":             "float16",
	})
	return Request{
		ConfigPath:   filepath.Join(srcDir, "config.json"),
		ModelType:    "llama",
		Quantization: "q4f16_1",
		ConvTemplate: "llama-2",
		OutputDir:    outDir,
		Log:          zerolog.Nop(),
	}
}

func readDocument(t *testing.T, outDir string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, OutputFile))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestGenerate_DefaultsApplied(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	req := llamaRequest(t, src, out)

	cfg, err := Generate(context.Background(), req)
	require.NoError(t, err)

	doc := readDocument(t, out)
	assert.Equal(t, 0.7, doc["temperature"])
	assert.Equal(t, 0.95, doc["top_p"])
	assert.Equal(t, float64(0), doc["pad_token_id"])
	assert.Equal(t, float64(1), doc["bos_token_id"])
	assert.Equal(t, float64(2), doc["eos_token_id"])
	assert.Equal(t, float64(4096), doc["max_window_size"])
	assert.Equal(t, "llama", doc["model_type"])
	assert.Equal(t, "q4f16_1", doc["quantization"])
	assert.Equal(t, "llama-2", doc["conv_template"])
	assert.Equal(t, []string{}, cfg.TokenizerFiles)
	assert.Equal(t, []any{}, doc["tokenizer_files"])
}

func TestGenerate_NoNullsInDocument(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	req := llamaRequest(t, src, out)

	_, err := Generate(context.Background(), req)
	require.NoError(t, err)

	for key, value := range readDocument(t, out) {
		assert.NotNil(t, value, "field %q serialized as null", key)
	}
}

func TestGenerate_GenerationConfigOutranksDefaults(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	req := llamaRequest(t, src, out)
	writeJSON(t, filepath.Join(src, GenerationConfigFile), map[string]any{
		"temperature":  0.2,
		"eos_token_id": 32001,
		"do_sample":    true, // unknown key, ignored
	})

	_, err := Generate(context.Background(), req)
	require.NoError(t, err)

	doc := readDocument(t, out)
	assert.Equal(t, 0.2, doc["temperature"])
	assert.Equal(t, float64(32001), doc["eos_token_id"])
	assert.Equal(t, 0.95, doc["top_p"]) // untouched default
	assert.NotContains(t, doc, "do_sample")
}

func TestGenerate_RawModelConfigPreservedVerbatim(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	req := llamaRequest(t, src, out)

	_, err := Generate(context.Background(), req)
	require.NoError(t, err)

	doc := readDocument(t, out)
	raw, ok := doc["model_config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "float16", raw["torch_dtype"])
	assert.Equal(t, float64(32000), raw["vocab_size"])
}

func TestGenerate_SlidingWindowSupersedesMaxWindow(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writeJSON(t, filepath.Join(src, "config.json"), map[string]any{
		"vocab_size":              32000,
		"max_position_embeddings": 32768,
		"sliding_window":          4096,
	})
	req := Request{
		ConfigPath:   filepath.Join(src, "config.json"),
		ModelType:    "mistral",
		Quantization: "q4f16_1",
		ConvTemplate: "mistral_default",
		OutputDir:    out,
		Log:          zerolog.Nop(),
	}

	_, err := Generate(context.Background(), req)
	require.NoError(t, err)

	doc := readDocument(t, out)
	assert.Equal(t, float64(4096), doc["sliding_window"])
	assert.NotContains(t, doc, "max_window_size")
}

func TestGenerate_SlidingWindowOverrideDropsExplicitWindow(t *testing.T) {
	// Reproduced-as-is policy: the sliding window wins even over an
	// explicitly requested context window size.
	src, out := t.TempDir(), t.TempDir()
	req := llamaRequest(t, src, out)
	sliding, window := 1024, 8192
	req.Overrides = schema.Overrides{SlidingWindow: &sliding, ContextWindowSize: &window}

	_, err := Generate(context.Background(), req)
	require.NoError(t, err)

	doc := readDocument(t, out)
	assert.Equal(t, float64(1024), doc["sliding_window"])
	assert.NotContains(t, doc, "max_window_size")
}

func TestGenerate_PrefillChunkSizeOverride(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	req := llamaRequest(t, src, out)
	prefill := 512
	req.Overrides = schema.Overrides{PrefillChunkSize: &prefill}

	_, err := Generate(context.Background(), req)
	require.NoError(t, err)

	doc := readDocument(t, out)
	assert.Equal(t, float64(512), doc["prefill_chunk_size"])
}

func TestGenerate_ArtifactsInCatalogOrder(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	req := llamaRequest(t, src, out)
	require.NoError(t, os.WriteFile(filepath.Join(src, "vocab.json"), []byte(`{}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "tokenizer.json"), []byte(`{}`), 0644))

	cfg, err := Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"tokenizer.json", "vocab.json"}, cfg.TokenizerFiles)
	assert.FileExists(t, filepath.Join(out, "tokenizer.json"))
	assert.FileExists(t, filepath.Join(out, "vocab.json"))
}

func TestGenerate_ConversionFallback(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	req := llamaRequest(t, src, out)
	req.Converter = passthroughConverter{}
	require.NoError(t, os.WriteFile(filepath.Join(src, "tokenizer.model"), []byte("spm"), 0644))

	cfg, err := Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"tokenizer.model", "tokenizer.json"}, cfg.TokenizerFiles)
}

func TestGenerate_ConverterAbsent(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	req := llamaRequest(t, src, out)
	require.NoError(t, os.WriteFile(filepath.Join(src, "tokenizer.model"), []byte("spm"), 0644))

	cfg, err := Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"tokenizer.model"}, cfg.TokenizerFiles)
}

func TestGenerate_MalformedConfigIsFatal(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "config.json"), []byte("{not json"), 0644))

	_, err := Generate(context.Background(), Request{
		ConfigPath:   filepath.Join(src, "config.json"),
		ModelType:    "llama",
		Quantization: "q4f16_1",
		ConvTemplate: "llama-2",
		OutputDir:    out,
		Log:          zerolog.Nop(),
	})
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(out, OutputFile))
}

func TestGenerate_UnderivableShapeIsFatal(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writeJSON(t, filepath.Join(src, "config.json"), map[string]any{
		"vocab_size": 32000, // no window size anywhere
	})

	_, err := Generate(context.Background(), Request{
		ConfigPath:   filepath.Join(src, "config.json"),
		ModelType:    "llama",
		Quantization: "q4f16_1",
		ConvTemplate: "llama-2",
		OutputDir:    out,
		Log:          zerolog.Nop(),
	})
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(out, OutputFile))
}

func TestGenerate_MalformedGenerationConfigIsRecoverable(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	req := llamaRequest(t, src, out)
	require.NoError(t, os.WriteFile(filepath.Join(src, GenerationConfigFile), []byte("{oops"), 0644))

	_, err := Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.7, readDocument(t, out)["temperature"])
}
