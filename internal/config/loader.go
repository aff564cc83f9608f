package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. NESTIFY_TIMEOUTS_INSTALL.
	EnvPrefix = "NESTIFY"

	// EnvConfigFile points at an alternative settings file.
	EnvConfigFile = "NESTIFY_CONFIG"
)

// DefaultConfigFile returns $XDG_CONFIG_HOME/nestify/config.yaml.
func DefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "nestify", "config.yaml")
}

// Loader merges settings sources with viper.
type Loader struct {
	v    *viper.Viper
	file string
}

// NewLoader returns a Loader with defaults registered. An empty file uses
// NESTIFY_CONFIG when set and DefaultConfigFile otherwise.
func NewLoader(file string) *Loader {
	if file == "" {
		file = os.Getenv(EnvConfigFile)
	}
	if file == "" {
		file = DefaultConfigFile()
	}

	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}
	return &Loader{v: v, file: file}
}

// File returns the settings file path consulted by Load.
func (l *Loader) File() string {
	return l.file
}

// BindFlag lets an explicitly set command-line flag override key.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return errors.Newf("config: no flag for %s", key)
	}
	return errors.Wrapf(l.v.BindPFlag(key, flag), "bind flag %s", flag.Name)
}

// Override sets key with the highest priority.
func (l *Loader) Override(key string, value any) {
	l.v.Set(key, value)
}

// Load reads the settings file if it exists, applies environment and flag
// overrides and validates the result.
func (l *Loader) Load() (Settings, error) {
	if _, err := os.Stat(l.file); err == nil {
		if err := l.v.ReadInConfig(); err != nil {
			return Settings{}, errors.WithHintf(
				errors.Mark(errors.Wrapf(err, "read %s", l.file), ErrInvalidYAML),
				"fix or remove %s", l.file)
		}
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Mark(errors.Wrap(err, "decode settings"), ErrInvalidConfig)
	}
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
