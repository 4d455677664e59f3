// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/emupack/emupack/internal/config"
)

// newConfigCommand creates the `emupack config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage emupack configuration",
		Long: `Manage emupack configuration.

Configuration is read from the --config file, else from:
  - Linux: ~/.config/emupack/config.cue
  - macOS: ~/Library/Application Support/emupack/config.cue
  - Windows: %LOCALAPPDATA%\emupack\config.cue
else from ./emupack.cue. Values not set fall back to defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := app.userConfigPath(flags)
			written, err := config.CreateDefaultConfig(app.FS, path, force)
			if err != nil {
				return app.fail(err, flags.verbose)
			}
			if !written {
				fmt.Fprintf(app.stdout, "%s already exists (use --force to overwrite)\n", PathStyle.Render(path))
				return nil
			}
			fmt.Fprintf(app.stdout, "%s created %s\n", SuccessStyle.Render("✓"), PathStyle.Render(path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show which configuration file is used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.Locate(app.loadOptions(flags))
			if err != nil {
				return app.fail(err, flags.verbose)
			}
			if path == "" {
				fmt.Fprintf(app.stdout, "%s\n", SubtitleStyle.Render("(using defaults)"))
				fmt.Fprintf(app.stdout, "user config: %s\n", app.userConfigPath(flags))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

// userConfigPath is where `config init` writes: the --config path when
// given, else config.cue in the config directory.
func (a *App) userConfigPath(flags *globalFlags) string {
	if flags.configPath != "" {
		return flags.configPath
	}
	dir := a.configDir
	if dir == "" {
		dir = config.ConfigDir()
	}
	return filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)
}

func defaultConfigHint() string {
	if runtime.GOOS == "windows" {
		return `%LOCALAPPDATA%\emupack\config.cue`
	}
	return "$XDG_CONFIG_HOME/emupack/config.cue"
}
