// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/emupack/emupack/internal/build"
	"github.com/emupack/emupack/internal/config"
	"github.com/emupack/emupack/internal/issue"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference and reach configuration, the
	// filesystem and the output streams through it.
	App struct {
		Config ConfigProvider
		FS     afero.Fs

		configDir string
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		FS     afero.Fs
		// ConfigDir overrides the XDG config directory.
		ConfigDir string
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// globalFlags holds the persistent flags shared by every command.
	globalFlags struct {
		configPath string
		catalog    string
		verbose    bool
	}

	// session is the per-invocation state built from flags and configuration.
	session struct {
		cfg      *config.Config
		logger   *log.Logger
		pipeline *build.Pipeline
		verbose  bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.FS == nil {
		deps.FS = afero.NewOsFs()
	}

	return &App{
		Config:    deps.Config,
		FS:        deps.FS,
		configDir: deps.ConfigDir,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
}

func (a *App) loadOptions(flags *globalFlags) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: flags.configPath,
		ConfigDirPath:  a.configDir,
		FS:             a.FS,
	}
}

// newSession loads configuration and applies flag overrides.
func (a *App) newSession(ctx context.Context, flags *globalFlags) (*session, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions(flags))
	if err != nil {
		return nil, a.fail(err, flags.verbose)
	}
	if flags.catalog != "" {
		cfg.Catalog = flags.catalog
	}

	verbose := flags.verbose || cfg.UI.Verbose
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	return &session{
		cfg:      cfg,
		logger:   logger,
		pipeline: build.New(a.FS, cfg, logger),
		verbose:  verbose,
	}, nil
}

// fail prepares err for display. In verbose mode the matching issue guide
// is rendered to stderr first.
func (a *App) fail(err error, verbose bool) error {
	var ae *issue.ActionableError
	if verbose && errors.As(err, &ae) {
		if guide := ae.Guide(); guide != nil {
			if rendered, rerr := guide.Render("auto"); rerr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}
	return exitErrorFor(err, verbose)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
