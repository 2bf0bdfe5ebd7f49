// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fonts loads the font used to measure badge text.
package fonts

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/btouchard/viewbadge/internal/services/badge"
)

// Embedded returns the bundled Go Regular font.
func Embedded() (*badge.Font, error) {
	f, err := badge.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("embedded font: %w", err)
	}
	return f, nil
}

// Load reads a TrueType or OpenType file.
func Load(path string) (*badge.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := badge.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", path, err)
	}
	return f, nil
}

// LoadOrEmbedded loads path when set and falls back to the embedded font
// when it is empty or unusable.
func LoadOrEmbedded(path string, logger *slog.Logger) (*badge.Font, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != "" {
		f, err := Load(path)
		if err == nil {
			logger.Info("font loaded", "path", path, "family", f.Name())
			return f, nil
		}
		logger.Warn("falling back to embedded font", "path", path, "error", err)
	}
	return Embedded()
}
