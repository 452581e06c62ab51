package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/aaz50/ByteIntern/errors"
)

// Load reads the ByteIntern configuration.
//
// Precedence (lowest to highest): defaults < user config
// (~/.byteintern/config.toml) < project config (byteintern.toml in the
// working directory) < environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("BYTEINTERN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindSensitiveEnvVars(v)
	SetDefaults(v)

	mergeConfigFiles(v)

	return LoadWithViper(v)
}

// LoadWithViper loads configuration using a provided Viper instance.
// Used by Load and by tests that need an isolated instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	config.Search.Locations = splitLocations(config.Search.Locations)
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	return LoadWithViper(v)
}

// mergeConfigFiles merges configuration files in precedence order. Merging
// into the config layer (rather than v.Set) keeps files below environment
// variables, so an env binding always wins over a file value.
func mergeConfigFiles(v *viper.Viper) {
	var configPaths []string

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(homeDir, ".byteintern", "config.toml"))
	}
	configPaths = append(configPaths, "byteintern.toml")

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		fileViper := viper.New()
		fileViper.SetConfigFile(configPath)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}
		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			continue
		}
	}
}

// splitLocations expands comma-separated location entries. Environment
// variables deliver the location list as a single "A,B,C" string; config
// files deliver a proper array. Both forms normalize to one entry per
// location with surrounding whitespace trimmed.
func splitLocations(locations []string) []string {
	var out []string
	for _, loc := range locations {
		for _, part := range strings.Split(loc, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
