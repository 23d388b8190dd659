// Package config resolves the CLI settings from defaults, an optional YAML
// config file, READINGLIST_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultDir holds the catalog and the config file.
const DefaultDir = "~/.config/readinglist"

// Config is the resolved configuration.
type Config struct {
	DBFile string `mapstructure:"db_file"`
	Format string `mapstructure:"format"`
	WithID bool   `mapstructure:"with_id"`
	Debug  bool   `mapstructure:"debug"`
}

// Overrides are values given on the command line. Empty strings and false
// booleans leave the lower layers alone.
type Overrides struct {
	ConfigFile string
	DBFile     string
	Format     string
	WithID     bool
	Debug      bool
}

// Load builds a Config. A missing config file in the default location is
// not an error; a missing file named by Overrides.ConfigFile is.
func Load(o Overrides) (Config, error) {
	v := viper.New()
	v.SetDefault("db_file", filepath.Join(DefaultDir, "readinglist.db"))
	v.SetDefault("format", "table")
	v.SetDefault("with_id", false)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("READINGLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.ConfigFile != "" {
		v.SetConfigFile(ExpandTilde(o.ConfigFile))
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ExpandTilde(DefaultDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		logrus.Debug("No config file found, using defaults and env vars")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if o.DBFile != "" {
		cfg.DBFile = o.DBFile
	}
	if o.Format != "" {
		cfg.Format = o.Format
	}
	cfg.WithID = cfg.WithID || o.WithID
	cfg.Debug = cfg.Debug || o.Debug
	cfg.DBFile = ExpandTilde(cfg.DBFile)

	return cfg, nil
}

// ExpandTilde replaces a leading "~" with the user's home directory.
// Absolute paths, relative paths and "~user" forms are returned unchanged.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
