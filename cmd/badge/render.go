// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/btouchard/viewbadge/internal/fonts"
	"github.com/btouchard/viewbadge/internal/services/badge"
)

type renderOpts struct {
	label      string
	message    string
	style      string
	color      string
	labelColor string
	fontPath   string
	fontFamily string
	out        string
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a badge as SVG",
		Example: `  badge render --label build --message passing
  badge render --label coverage --message 87% --color yellowgreen --style flat-square --out coverage.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.label, "label", "", "left-hand text")
	f.StringVar(&opts.message, "message", "", "right-hand text")
	f.StringVar(&opts.style, "style", badge.Flat.String(), "badge style (see 'badge styles')")
	f.StringVar(&opts.color, "color", "", "message background color (name or hex)")
	f.StringVar(&opts.labelColor, "label-color", "", "label background color (name or hex)")
	f.StringVar(&opts.fontPath, "font", "", "TrueType/OpenType font used for measuring (default: embedded)")
	f.StringVar(&opts.fontFamily, "font-family", "", "font-family written into the SVG")
	f.StringVarP(&opts.out, "out", "o", "", "write the SVG to this file instead of stdout")

	return cmd
}

func runRender(cmd *cobra.Command, opts renderOpts) error {
	log := loggerFrom(cmd.Context())

	style, err := badge.ParseStyle(opts.style)
	if err != nil {
		return err
	}

	font, err := loadFont(opts.fontPath)
	if err != nil {
		return err
	}

	if opts.color != "" {
		if _, ok := badge.ResolveColor(opts.color); !ok {
			log.Warn("unknown color, using default", "color", opts.color)
		}
	}

	svg := badge.Render(badge.Request{
		Style:      style,
		Label:      opts.label,
		Message:    opts.message,
		Font:       font,
		FontFamily: opts.fontFamily,
		LabelColor: opts.labelColor,
		Color:      opts.color,
	})

	if opts.out == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), svg+"\n")
		return err
	}
	if err := os.WriteFile(opts.out, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write badge: %w", err)
	}
	log.Debug("badge written", "path", opts.out, "bytes", len(svg))
	return nil
}

// loadFont loads path, or the embedded font when path is empty. Unlike the
// server, an explicit path that fails to load is an error.
func loadFont(path string) (*badge.Font, error) {
	if path == "" {
		return fonts.Embedded()
	}
	return fonts.Load(path)
}

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List available badge styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range badge.Styles() {
				spec := s.Spec()
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-12s height=%g radius=%g gradient=%t\n",
					s, spec.Height, spec.Radius, spec.Gradient); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
