// Package config loads nestify's user settings: compiled defaults, an optional
// YAML file under the XDG config directory, NESTIFY_* environment variables
// and command-line flags, in increasing priority.
package config

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors for configuration operations.
var (
	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrInvalidYAML indicates the settings file could not be parsed.
	ErrInvalidYAML = errors.New("config: invalid YAML syntax")
)
