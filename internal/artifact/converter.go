// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package artifact

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrConverterUnavailable indicates the conversion capability is not
// installed on this system. Callers treat it as advisory, not fatal.
var ErrConverterUnavailable = errors.New("tokenizer converter unavailable")

// Converter derives tokenizer.json from the legacy tokenizer.model
// serialization. The resolver only depends on this interface; whether a
// real converter is installed is decided at wiring time.
type Converter interface {
	// Convert reads the tokenizer from srcDir and writes the converted
	// tokenizer.json to dstPath.
	Convert(ctx context.Context, srcDir, dstPath string) error
}

// Unavailable is the stub used when no conversion capability exists.
type Unavailable struct{}

// Convert always reports ErrConverterUnavailable.
func (Unavailable) Convert(ctx context.Context, srcDir, dstPath string) error {
	return ErrConverterUnavailable
}

// convertScript loads the tokenizer with the HuggingFace transformers
// library and saves the fast-tokenizer serialization.
const convertScript = `import sys
from transformers import AutoTokenizer
tok = AutoTokenizer.from_pretrained(sys.argv[1], use_fast=True)
tok.backend_tokenizer.save(sys.argv[2])
`

// convertTimeout bounds a single conversion attempt.
// CANCELLATION: Context enables timeout and cancellation
const convertTimeout = 120 * time.Second

// ExecConverter shells out to an external command to perform the
// conversion. With no explicit command it runs a python3 one-liner
// against the transformers library.
type ExecConverter struct {
	// Command is the argv prefix to run; srcDir and dstPath are
	// appended as the final two arguments. Empty means the built-in
	// python3/transformers invocation.
	Command []string
}

// NewExecConverter builds a converter for the given command override.
func NewExecConverter(command []string) *ExecConverter {
	return &ExecConverter{Command: command}
}

// Convert runs the external command. A missing executable maps to
// ErrConverterUnavailable so callers can distinguish "not installed"
// from a genuine conversion failure.
func (c *ExecConverter) Convert(ctx context.Context, srcDir, dstPath string) error {
	argv := c.Command
	if len(argv) == 0 {
		argv = []string{"python3", "-c", convertScript}
	}

	if _, err := exec.LookPath(argv[0]); err != nil {
		return fmt.Errorf("%w: %s not found", ErrConverterUnavailable, argv[0])
	}

	ctx, cancel := context.WithTimeout(ctx, convertTimeout)
	defer cancel()

	args := append(append([]string{}, argv[1:]...), srcDir, dstPath)
	cmd := exec.CommandContext(ctx, argv[0], args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("conversion command failed: %w: %s", err, string(out))
	}
	return nil
}
