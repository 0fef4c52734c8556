// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the zerolog logger used across confgen.
//
// Informational output (found/not-found artifacts, per-field merge
// provenance) goes to stdout; errors go to stderr so shell pipelines can
// separate the two. Color is disabled automatically when stdout is not a
// terminal.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New builds a console logger at the given level.
func New(level zerolog.Level) zerolog.Logger {
	noColor := !term.IsTerminal(int(os.Stdout.Fd()))
	writer := zerolog.MultiLevelWriter(
		specificLevelWriter{
			Writer: zerolog.ConsoleWriter{
				Out:        os.Stdout,
				TimeFormat: time.RFC3339,
				NoColor:    noColor,
			},
			Levels: []zerolog.Level{
				zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel,
			},
		},
		specificLevelWriter{
			Writer: zerolog.ConsoleWriter{
				Out:     os.Stderr,
				NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
			},
			Levels: []zerolog.Level{
				zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel,
			},
		},
	)
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a settings string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// specificLevelWriter forwards only the listed levels to its writer.
type specificLevelWriter struct {
	io.Writer
	Levels []zerolog.Level
}

func (w specificLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	for _, l := range w.Levels {
		if l == level {
			return w.Write(p)
		}
	}
	return len(p), nil
}
