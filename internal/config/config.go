// Package config loads CLI defaults with flag > env > config file >
// built-in default precedence, the way viper is used throughout the
// examples this tool is modeled on.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const maxWalkDepth = 25

// Config is the on-disk overpassql.yaml shape.
type Config struct {
	Dialect string       `mapstructure:"dialect"`
	SRID    int          `mapstructure:"srid"`
	Timeout uint32       `mapstructure:"timeout"`
	Verify  VerifyConfig `mapstructure:"verify"`
}

// VerifyConfig holds settings for the verify subcommand's live database
// connection.
type VerifyConfig struct {
	DatabaseURL string `mapstructure:"database_url"`
}

// Load discovers and loads configuration with proper precedence: flags
// (applied by the caller after Load returns) > env > config file > defaults.
func Load(explicitPath string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("OVERPASSQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := findConfigFile(explicitPath)
	if err != nil {
		return nil, "", err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, path, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, path, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, path, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dialect", "postgres")
	v.SetDefault("srid", 3857)
	v.SetDefault("timeout", 160)
	v.SetDefault("verify.database_url", "")
}

func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"overpassql.yaml", "overpassql.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}
