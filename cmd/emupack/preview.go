// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/emupack/emupack/internal/build"
	"github.com/emupack/emupack/internal/config"
	"github.com/emupack/emupack/internal/readme"
)

const previewWrap = 120

func newPreviewCommand(app *App, flags *globalFlags) *cobra.Command {
	var withReadme bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the table in the terminal",
		Long: `Render the table, or the whole README with --readme, as styled terminal
Markdown. The style follows ui.color_scheme.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			c, err := s.pipeline.LoadCatalog(cmd.Context())
			if err != nil {
				return app.fail(err, s.verbose)
			}
			a, err := s.pipeline.Generate(cmd.Context(), c, build.TargetTable)
			if err != nil {
				return app.fail(err, s.verbose)
			}

			md := a.Table.Markdown
			if withReadme {
				data, err := readme.Assemble(app.FS, s.cfg.Readme.Sections, md)
				if err != nil {
					return app.fail(err, s.verbose)
				}
				md = string(data)
			}

			r, err := glamour.NewTermRenderer(
				glamourStyle(s.cfg.UI.ColorScheme),
				glamour.WithWordWrap(previewWrap),
			)
			if err != nil {
				return err
			}
			out, err := r.Render(md)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withReadme, "readme", false, "render the assembled README instead of the table")
	return cmd
}

func glamourStyle(scheme config.ColorScheme) glamour.TermRendererOption {
	switch scheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return glamour.WithStandardStyle(string(scheme))
	default:
		return glamour.WithAutoStyle()
	}
}
