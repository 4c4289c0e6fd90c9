// Package config holds the settings shared by every saspector command.
// Values come from ~/.saspector.yaml, SASPECTOR_* environment variables
// and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/logt-kuleuven/saspector/internal/aligner"
)

// Configuration keys.
const (
	KeyFlanking     = "flanking"
	KeyAlignerMauve = "aligner.mauve"
	KeyAlignerUnion = "aligner.union"
	KeyCatalog      = "catalog"
	KeyLogLevel     = "log.level"
	KeyProgress     = "progress"
)

// FileName is the config file name looked up in the home directory.
const FileName = ".saspector.yaml"

// EnvPrefix prefixes environment overrides, e.g. SASPECTOR_ALIGNER_MAUVE.
const EnvPrefix = "SASPECTOR"

// AlignerConfig names the external executables.
type AlignerConfig struct {
	Mauve string `mapstructure:"mauve"`
	Union string `mapstructure:"union"`
}

// LogConfig is the logging setup.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the root-level settings struct.
type Config struct {
	// bases added on both sides of every unmapped region
	Flanking int `mapstructure:"flanking"`
	// external tool names or paths
	Aligner AlignerConfig `mapstructure:"aligner"`
	// DuckDB run catalogue, empty to disable
	Catalog string    `mapstructure:"catalog"`
	Log     LogConfig `mapstructure:"log"`
	// show a spinner while external tools run
	Progress bool `mapstructure:"progress"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFlanking, 0)
	v.SetDefault(KeyAlignerMauve, aligner.DefaultMauve)
	v.SetDefault(KeyAlignerUnion, aligner.DefaultUnion)
	v.SetDefault(KeyCatalog, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyProgress, true)
}

// DefaultFile returns the path of the config file in the home directory.
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Init sets defaults and environment binding on v and reads cfgFile, or
// ~/.saspector.yaml when cfgFile is empty. A missing default file is not
// an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Flanking < 0 {
		return fmt.Errorf("%s must be non-negative, got %d", KeyFlanking, c.Flanking)
	}
	if c.Aligner.Mauve == "" {
		return fmt.Errorf("%s must not be empty", KeyAlignerMauve)
	}
	if c.Aligner.Union == "" {
		return fmt.Errorf("%s must not be empty", KeyAlignerUnion)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return lvl, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	return lvl, nil
}
