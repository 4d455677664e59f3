// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for emupack.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the emupack command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "emupack",
		Short: "Build the Obtainium emulation pack",
		Long: TitleStyle.Render("emupack") + SubtitleStyle.Render(" - Build the Obtainium emulation pack") + `

emupack reads the catalog of Android emulators and companion apps and
produces the artifacts published with each release: the Obtainium import
document, its checksum, and a README listing every app with a one-tap
install link.

` + SubtitleStyle.Render("Examples:") + `
  emupack validate          Check the catalog
  emupack build             Write the export, checksum and README
  emupack links com.winlator
                            Print the install link of one app
  emupack preview           Show the rendered table in the terminal
  emupack config show       Show the effective configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is "+defaultConfigHint()+")")
	rootCmd.PersistentFlags().StringVar(&flags.catalog, "catalog", "", "catalog document, overrides the config file")

	rootCmd.AddCommand(
		newValidateCommand(app, flags),
		newLinksCommand(app, flags),
		newInspectCommand(app, flags),
		newTableCommand(app, flags),
		newPreviewCommand(app, flags),
		newExportCommand(app, flags),
		newReadmeCommand(app, flags),
		newBuildCommand(app, flags),
		newConfigCommand(app, flags),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(ExitFailure))
	}
}
