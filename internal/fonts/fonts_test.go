// SPDX-License-Identifier: AGPL-3.0-or-later

package fonts

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestEmbedded(t *testing.T) {
	f, err := Embedded()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name() != "Go" {
		t.Errorf("expected family Go, got %q", f.Name())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "go.ttf")
	bad := filepath.Join(dir, "bad.ttf")
	if err := os.WriteFile(good, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("not a font"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(good); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Load(filepath.Join(dir, "missing.ttf")); err == nil {
		t.Error("expected read error")
	}
}

func TestLoadOrEmbedded_Fallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	f, err := LoadOrEmbedded(filepath.Join(t.TempDir(), "missing.ttf"), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f == nil {
		t.Fatal("expected a font")
	}
	if !strings.Contains(buf.String(), "falling back") {
		t.Errorf("expected fallback warning, got %q", buf.String())
	}
}

func TestLoadOrEmbedded_EmptyPath(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if _, err := LoadOrEmbedded("", logger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output, got %q", buf.String())
	}
}
