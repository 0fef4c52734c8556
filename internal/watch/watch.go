// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch reruns generation when any of the source documents
// change. Events are debounced so an editor's save-and-rename dance
// triggers a single regeneration.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher observes a set of filenames inside one directory.
type Watcher struct {
	dir      string
	names    map[string]bool
	debounce time.Duration
	onChange func()
	log      zerolog.Logger
}

// New creates a watcher over dir that fires onChange when any of the
// named files is written, created, renamed or removed.
func New(dir string, names []string, debounce time.Duration, onChange func(), log zerolog.Logger) *Watcher {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return &Watcher{
		dir:      dir,
		names:    set,
		debounce: debounce,
		onChange: onChange,
		log:      log,
	}
}

// Run blocks processing events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	w.log.Info().Str("dir", w.dir).Msg("watching for changes")

	// A zero timer that is stopped immediately gives us a reusable
	// debounce channel.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.names[filepath.Base(event.Name)] {
				continue
			}
			w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		case <-timer.C:
			pending = false
			w.onChange()
		}
	}
}
