// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Catalog is the fixed, ordered set of recognized tokenizer files.
// The resolved artifact list always follows this order, regardless of
// directory listing order.
var Catalog = []string{
	"tokenizer.model",
	"tokenizer.json",
	"vocab.json",
	"merges.txt",
	"added_tokens.json",
	"tokenizer_config.json",
}

// Resolver scans a source directory for catalog files and copies the
// ones it finds into the output directory.
type Resolver struct {
	conv Converter
	log  zerolog.Logger
}

// NewResolver creates a resolver. conv may be Unavailable{} when no
// conversion capability is installed.
func NewResolver(conv Converter, log zerolog.Logger) *Resolver {
	if conv == nil {
		conv = Unavailable{}
	}
	return &Resolver{conv: conv, log: log}
}

// Resolve copies every catalog file present in srcDir into outDir and
// returns their names in catalog order. When tokenizer.model exists but
// tokenizer.json does not, a best-effort conversion is attempted;
// conversion problems degrade to warnings and never fail the resolve.
//
// srcDir is never written to. A name is appended to the result only
// after its copy or conversion fully succeeded.
func (r *Resolver) Resolve(ctx context.Context, srcDir, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	found := []string{}
	for _, name := range Catalog {
		src := filepath.Join(srcDir, name)
		if _, err := os.Stat(src); err != nil {
			r.log.Info().Str("file", name).Msg("tokenizer config not found")
			continue
		}
		dst := filepath.Join(outDir, name)
		if err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("failed to copy %s: %w", name, err)
		}
		r.log.Info().Str("file", name).Str("dest", dst).Msg("found tokenizer config, copied")
		found = append(found, name)
	}

	// tokenizer.json is the preferred serialization; try deriving it
	// from tokenizer.model when only the legacy format exists.
	hasModel := contains(found, "tokenizer.model")
	hasJSON := contains(found, "tokenizer.json")
	if hasModel && !hasJSON {
		dst := filepath.Join(outDir, "tokenizer.json")
		r.log.Info().Msg("attempting to convert tokenizer.model to tokenizer.json")
		if err := r.conv.Convert(ctx, srcDir, dst); err != nil {
			// A failed attempt must not leave a partial file behind.
			os.Remove(dst)
			if errors.Is(err, ErrConverterUnavailable) {
				r.log.Warn().Msg("tokenizer.json is recommended over tokenizer.model, but no converter is available; skipping")
			} else {
				r.log.Warn().Err(err).Msg("tokenizer.model conversion failed; continuing without tokenizer.json")
			}
		} else {
			r.log.Info().Str("dest", dst).Msg("converted tokenizer.model to tokenizer.json")
			found = append(found, "tokenizer.json")
		}
	}

	return found, nil
}

// copyFile copies src to dst byte-for-byte.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
