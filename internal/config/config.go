// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/emupack/emupack/internal/issue"
	"github.com/emupack/emupack/pkg/cueutil"
	"github.com/emupack/emupack/pkg/deeplink"
	"github.com/emupack/emupack/pkg/table"
)

const (
	// AppName is the application name.
	AppName = "emupack"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFile is looked up in the working directory when the user
	// config file does not exist.
	LocalConfigFile = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides (e.g., EMUPACK_OUTPUT_README).
	EnvPrefix = "EMUPACK"

	defaultCatalog = "obtainium-emulation-pack.json"
	defaultExport  = "obtainium-emulation-pack-latest.json"
	defaultReadme  = "README.md"
)

//go:embed config_schema.cue
var configSchema []byte

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() *Config {
	return &Config{
		Catalog: defaultCatalog,
		Link:    LinkConfig{BaseURL: deeplink.DefaultBase},
		Output: OutputConfig{
			Export:   defaultExport,
			Readme:   defaultReadme,
			Checksum: true,
		},
		Readme: ReadmeConfig{
			Sections: []string{"pages/init.md", TableMarker, "pages/faq.md"},
		},
		Table: TableConfig{
			HeadingLevel:  table.DefaultHeadingLevel,
			FallbackGroup: table.DefaultFallbackGroup,
		},
		UI: UIConfig{ColorScheme: ColorSchemeAuto},
	}
}

// ConfigDir returns the emupack configuration directory under the XDG
// config home (%LOCALAPPDATA% on Windows, ~/Library/Application Support on
// macOS).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Locate returns the config file Load would read, or "" when none exists
// and only defaults apply.
func Locate(opts LoadOptions) (string, error) {
	fs := opts.fs()

	if opts.ConfigFilePath != "" {
		if !fileExists(fs, opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'emupack config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	userPath := filepath.Join(opts.configDir(), ConfigFileName+"."+ConfigFileExt)
	if fileExists(fs, userPath) {
		return userPath, nil
	}

	localPath := filepath.Join(opts.WorkDir, LocalConfigFile)
	if fileExists(fs, localPath) {
		return localPath, nil
	}

	return "", nil
}

// loadWithOptions performs option-driven config loading. The returned path
// is empty when only defaults were used.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := Locate(opts)
	if err != nil {
		return nil, "", err
	}

	if path != "" {
		if err := loadCUEIntoViper(opts.fs(), v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Run 'emupack config show' to see the effective values").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, path, nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("catalog", defaults.Catalog)
	v.SetDefault("link.base_url", defaults.Link.BaseURL)
	v.SetDefault("output.export", string(defaults.Output.Export))
	v.SetDefault("output.readme", string(defaults.Output.Readme))
	v.SetDefault("output.table", string(defaults.Output.Table))
	v.SetDefault("output.checksum", defaults.Output.Checksum)
	v.SetDefault("readme.sections", defaults.Readme.Sections)
	v.SetDefault("table.heading_level", int(defaults.Table.HeadingLevel))
	v.SetDefault("table.fallback_group", defaults.Table.FallbackGroup)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Config fields are all optional, so the file is validated non-concretely and
// decoded to a map that Viper merges over its defaults.
func loadCUEIntoViper(fs afero.Fs, v *viper.Viper, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path, creating
// its directory. An existing file is left alone unless force is set.
// It reports whether a file was written.
func CreateDefaultConfig(fs afero.Fs, path string, force bool) (bool, error) {
	if !force && fileExists(fs, path) {
		return false, nil
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := afero.WriteFile(fs, path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// emupack configuration file\n")
	sb.WriteString("// Values left out fall back to the built-in defaults.\n\n")

	fmt.Fprintf(&sb, "catalog: %q\n", cfg.Catalog)

	sb.WriteString("\nlink: {\n")
	fmt.Fprintf(&sb, "\tbase_url: %q\n", cfg.Link.BaseURL)
	sb.WriteString("}\n")

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\texport:   %q\n", cfg.Output.Export)
	fmt.Fprintf(&sb, "\treadme:   %q\n", cfg.Output.Readme)
	fmt.Fprintf(&sb, "\ttable:    %q\n", cfg.Output.Table)
	fmt.Fprintf(&sb, "\tchecksum: %v\n", cfg.Output.Checksum)
	sb.WriteString("}\n")

	sb.WriteString("\nreadme: {\n")
	sb.WriteString("\tsections: [")
	for i, s := range cfg.Readme.Sections {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", s)
	}
	sb.WriteString("]\n")
	sb.WriteString("}\n")

	sb.WriteString("\ntable: {\n")
	fmt.Fprintf(&sb, "\theading_level:  %d\n", cfg.Table.HeadingLevel)
	fmt.Fprintf(&sb, "\tfallback_group: %q\n", cfg.Table.FallbackGroup)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
