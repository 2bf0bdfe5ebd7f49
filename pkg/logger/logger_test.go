// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.want)
		}
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", Output: &buf})

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at info level, got %q", buf.String())
	}

	l.Info("server started", "addr", ":8080")
	out := buf.String()
	if !strings.Contains(out, "server started") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, ":8080") {
		t.Errorf("expected attribute in output, got %q", out)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: "json", Output: &buf})

	Component(l, "store").Debug("opened", "kind", "memory")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "opened" {
		t.Errorf("unexpected msg %v", entry["msg"])
	}
	if entry["component"] != "store" {
		t.Errorf("unexpected component %v", entry["component"])
	}
	if entry["kind"] != "memory" {
		t.Errorf("unexpected kind %v", entry["kind"])
	}
}
