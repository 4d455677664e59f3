// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is read from the file given with --config, else from
// config.cue in the XDG config directory (see ConfigDir), else from
// emupack.cue in the working directory. Missing values take built-in
// defaults and EMUPACK_* environment variables override any source.
//
// Files are validated against an embedded CUE schema (config_schema.cue)
// before they reach Viper, and the decoded Config is checked again with
// IsValid for rules the schema cannot express.
package config
