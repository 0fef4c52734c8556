// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lmforge/confgen/internal/artifact"
	"github.com/lmforge/confgen/internal/chatconfig"
	"github.com/lmforge/confgen/internal/config"
	"github.com/lmforge/confgen/internal/history"
	"github.com/lmforge/confgen/internal/logging"
	"github.com/lmforge/confgen/internal/schema"
	"github.com/lmforge/confgen/internal/watch"
)

// HandleGenerate runs the resolution pipeline once, or repeatedly in
// watch mode.
func HandleGenerate(args *ArgParser) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	level := logging.ParseLevel(settings.LogLevel)
	if args.BoolFlag("verbose") {
		level = zerolog.DebugLevel
	}
	if args.BoolFlag("quiet") {
		level = zerolog.ErrorLevel
	}
	log := logging.New(level)

	req, err := buildRequest(args, settings, log)
	if err != nil {
		return err
	}

	run := func(ctx context.Context) error {
		cfg, err := chatconfig.Generate(ctx, *req)
		if err != nil {
			return err
		}
		recordRun(ctx, settings, req, cfg, log)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		return err
	}
	if !args.BoolFlag("watch") {
		return nil
	}

	// Watch mode: regenerate whenever the source documents change.
	// A failed regeneration is reported and watching continues.
	srcDir := filepath.Dir(req.ConfigPath)
	names := append([]string{
		filepath.Base(req.ConfigPath),
		chatconfig.GenerationConfigFile,
	}, artifact.Catalog...)
	debounce := time.Duration(settings.Watch.DebounceMs) * time.Millisecond

	w := watch.New(srcDir, names, debounce, func() {
		if err := run(ctx); err != nil {
			log.Error().Err(err).Msg("regeneration failed")
		}
	}, log)

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// buildRequest validates flags and assembles the pipeline request.
func buildRequest(args *ArgParser, settings *config.Settings, log zerolog.Logger) (*chatconfig.Request, error) {
	configPath := args.Flag("config")
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}

	modelType := args.Flag("model-type")
	if !schema.IsFamily(modelType) {
		return nil, fmt.Errorf("--model-type: unknown family %q (supported: %v)", modelType, schema.Families())
	}

	quantization := args.Flag("quantization")
	if !schema.IsQuantization(quantization) {
		return nil, fmt.Errorf("--quantization: unknown scheme %q (supported: %v)", quantization, schema.Quantizations())
	}

	convTemplate := args.Flag("conv-template")
	if !chatconfig.IsConvTemplate(convTemplate) {
		return nil, fmt.Errorf("--conv-template: unknown template %q; run 'confgen templates' for the catalog", convTemplate)
	}

	contextWindow, err := args.IntFlag("context-window-size")
	if err != nil {
		return nil, err
	}
	slidingWindow, err := args.IntFlag("sliding-window")
	if err != nil {
		return nil, err
	}
	prefillChunk, err := args.IntFlag("prefill-chunk-size")
	if err != nil {
		return nil, err
	}

	output := args.Flag("output")
	if output == "" {
		output = "dist"
	}

	return &chatconfig.Request{
		ConfigPath:   configPath,
		ModelType:    modelType,
		Quantization: quantization,
		ConvTemplate: convTemplate,
		Overrides: schema.Overrides{
			ContextWindowSize: contextWindow,
			SlidingWindow:     slidingWindow,
			PrefillChunkSize:  prefillChunk,
		},
		OutputDir: output,
		Converter: artifact.NewExecConverter(settings.Converter.Command),
		Log:       log,
	}, nil
}

// recordRun appends the completed run to the local ledger. Ledger
// failures are advisory only.
func recordRun(ctx context.Context, settings *config.Settings, req *chatconfig.Request, cfg *chatconfig.ChatConfig, log zerolog.Logger) {
	if !settings.History.Enabled {
		return
	}
	path, err := settings.HistoryPath()
	if err != nil {
		log.Warn().Err(err).Msg("skipping run ledger")
		return
	}
	store, err := history.Open(path)
	if err != nil {
		log.Warn().Err(err).Msg("failed to open run ledger")
		return
	}
	defer store.Close()

	err = store.Record(ctx, history.Record{
		ModelType:     req.ModelType,
		Quantization:  req.Quantization,
		ConvTemplate:  req.ConvTemplate,
		ConfigPath:    req.ConfigPath,
		OutputDir:     req.OutputDir,
		ArtifactCount: len(cfg.TokenizerFiles),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to record run")
	}
}
