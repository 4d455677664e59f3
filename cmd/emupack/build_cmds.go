// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emupack/emupack/internal/build"
)

func newExportCommand(app *App, flags *globalFlags) *cobra.Command {
	return newWriteCommand(app, flags, build.TargetExport, &cobra.Command{
		Use:   "export",
		Short: "Write the Obtainium import document",
		Long: `Write the import document (output.export) and, when output.checksum is
set, its SHA-256 checksum. Apps flagged meta.excludeFromExport are left out
and no meta block reaches the document.`,
	})
}

func newReadmeCommand(app *App, flags *globalFlags) *cobra.Command {
	return newWriteCommand(app, flags, build.TargetReadme, &cobra.Command{
		Use:   "readme",
		Short: "Write the README",
		Long: `Assemble readme.sections into output.readme, replacing the "@table"
entry with the rendered table.`,
	})
}

func newBuildCommand(app *App, flags *globalFlags) *cobra.Command {
	return newWriteCommand(app, flags, build.TargetAll, &cobra.Command{
		Use:   "build",
		Short: "Write every artifact",
		Long: `Write the export, its checksum, the README and the table fragment,
whichever are configured. Nothing is written unless all of them can be built.`,
	})
}

// newWriteCommand completes cmd with a handler that runs the pipeline for
// targets and lists the written files.
func newWriteCommand(app *App, flags *globalFlags, targets build.Target, cmd *cobra.Command) *cobra.Command {
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		s, err := app.newSession(cmd.Context(), flags)
		if err != nil {
			return err
		}

		_, files, err := s.pipeline.Run(cmd.Context(), targets)
		if err != nil {
			return app.fail(err, s.verbose)
		}

		if len(files) == 0 {
			fmt.Fprintln(app.stdout, WarningStyle.Render("nothing to write: every selected output path is empty"))
			return nil
		}
		for _, f := range files {
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), PathStyle.Render(f.Path))
		}
		return nil
	}
	return cmd
}
