// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newCapturingSlog(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	original := Logger()
	t.Cleanup(func() { SetLogger(original) })
	SetLogger(NewTestLogger(&buf))

	return NewSlogLogger(), &buf
}

func TestSlogHandler_Levels(t *testing.T) {
	tests := []struct {
		name string
		log  func(l *slog.Logger)
		want string
	}{
		{"info", func(l *slog.Logger) { l.Info("hello") }, `"level":"info"`},
		{"warn", func(l *slog.Logger) { l.Warn("hello") }, `"level":"warn"`},
		{"error", func(l *slog.Logger) { l.Error("hello") }, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newCapturingSlog(t)
			tt.log(l)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %s in %s", tt.want, buf.String())
			}
		})
	}
}

func TestSlogHandler_Attributes(t *testing.T) {
	l, buf := newCapturingSlog(t)

	l.With("service", "http-server").
		WithGroup("supervisor").
		Info("restarting", "attempt", 3, "backoff", 15*time.Second, "healthy", false)

	output := buf.String()
	for _, want := range []string{
		`"service":"http-server"`,
		`"supervisor.attempt":3`,
		`"supervisor.healthy":false`,
		"restarting",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in %s", want, output)
		}
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	if got := slogToZerologLevel(slog.LevelDebug - 4); got.String() != "trace" {
		t.Errorf("below debug = %s, want trace", got)
	}
	if got := slogToZerologLevel(slog.LevelError + 4); got.String() != "error" {
		t.Errorf("above error = %s, want error", got)
	}
}
