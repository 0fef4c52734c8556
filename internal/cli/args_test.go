// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmforge/confgen/internal/config"
)

func TestArgParser_FlagForms(t *testing.T) {
	p := NewArgParser([]string{
		"--config", "model/config.json",
		"--output=dist",
		"--watch",
		"--quiet=true",
		"positional",
	})

	assert.Equal(t, "model/config.json", p.Flag("config"))
	assert.Equal(t, "dist", p.Flag("output"))
	assert.True(t, p.BoolFlag("watch"))
	assert.True(t, p.BoolFlag("quiet"))
	assert.Equal(t, []string{"positional"}, p.Positional())
}

func TestArgParser_IntFlag(t *testing.T) {
	p := NewArgParser([]string{"--sliding-window", "2048"})

	n, err := p.IntFlag("sliding-window")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 2048, *n)

	absent, err := p.IntFlag("context-window-size")
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestArgParser_IntFlagMalformed(t *testing.T) {
	p := NewArgParser([]string{"--sliding-window", "lots"})

	_, err := p.IntFlag("sliding-window")
	assert.Error(t, err)
}

func TestBuildRequest_Valid(t *testing.T) {
	p := NewArgParser([]string{
		"--config", "m/config.json",
		"--model-type", "llama",
		"--quantization", "q4f16_1",
		"--conv-template", "llama-2",
		"--sliding-window", "4096",
	})

	req, err := buildRequest(p, config.Default(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "m/config.json", req.ConfigPath)
	assert.Equal(t, "llama", req.ModelType)
	assert.Equal(t, "dist", req.OutputDir)
	require.NotNil(t, req.Overrides.SlidingWindow)
	assert.Equal(t, 4096, *req.Overrides.SlidingWindow)
	assert.Nil(t, req.Overrides.ContextWindowSize)
}

func TestBuildRequest_RejectsUnknownValues(t *testing.T) {
	base := []string{
		"--config", "m/config.json",
		"--model-type", "llama",
		"--quantization", "q4f16_1",
		"--conv-template", "llama-2",
	}

	cases := map[string][]string{
		"missing config":       {"--model-type", "llama", "--quantization", "q4f16_1", "--conv-template", "llama-2"},
		"unknown family":       replaceFlag(base, "model-type", "gguf"),
		"unknown quantization": replaceFlag(base, "quantization", "q9f99"),
		"unknown template":     replaceFlag(base, "conv-template", "mystery"),
	}

	for name, argv := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := buildRequest(NewArgParser(argv), config.Default(), zerolog.Nop())
			assert.Error(t, err)
		})
	}
}

func replaceFlag(argv []string, name, value string) []string {
	out := make([]string, len(argv))
	copy(out, argv)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "--"+name {
			out[i+1] = value
		}
	}
	return out
}
