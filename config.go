package fsobj

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned by LoadConfig when the config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is the file the CLI looks for when --config is not given.
const ConfigFileName = "fsobj.yaml"

// Config holds the policy a provider enforces.
type Config struct {
	AllowedPaths         []string `yaml:"allowed_paths"`
	DirectorySeparator   string   `yaml:"directory_separator"`
	FilesMustExist       bool     `yaml:"files_must_exist"`
	DirectoriesMustExist bool     `yaml:"dirs_must_exist"`
	DebugLevel           int      `yaml:"debuglevel"`

	// StrictPrefix makes the allow-list match on whole path segments, so
	// /var/data2 no longer passes for an allowed /var/data.
	StrictPrefix bool `yaml:"strict_prefix,omitempty"`
}

// DefaultLocalConfig is the policy of the local disk provider.
func DefaultLocalConfig() Config {
	return Config{
		AllowedPaths:         []string{"/var/data"},
		DirectorySeparator:   "/",
		FilesMustExist:       true,
		DirectoriesMustExist: false,
		DebugLevel:           3,
	}
}

// DefaultRemoteConfig is the policy of the remote providers. Files need not
// exist at construction because checking costs a listing round trip.
func DefaultRemoteConfig() Config {
	return Config{
		AllowedPaths:         []string{"/"},
		DirectorySeparator:   "/",
		FilesMustExist:       false,
		DirectoriesMustExist: false,
		DebugLevel:           3,
	}
}

// LoadConfig reads a yaml config file on top of defaults. Keys missing from
// the file keep their default value.
func LoadConfig(path string, defaults Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, ErrConfigNotFound
		}
		return defaults, err
	}

	cfg := defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaults, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return defaults, err
	}
	return cfg, nil
}

// ApplyEnv overrides config values from FSOBJ_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("FSOBJ_ALLOWED_PATHS"); v != "" {
		var paths []string
		for _, p := range strings.Split(v, string(os.PathListSeparator)) {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		c.AllowedPaths = paths
	}
	if v := os.Getenv("FSOBJ_SEPARATOR"); v != "" {
		c.DirectorySeparator = v
	}
	for key, dest := range map[string]*bool{
		"FSOBJ_FILES_MUST_EXIST": &c.FilesMustExist,
		"FSOBJ_DIRS_MUST_EXIST":  &c.DirectoriesMustExist,
		"FSOBJ_STRICT_PREFIX":    &c.StrictPrefix,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", v, key, err)
		}
		*dest = b
	}
	if v := os.Getenv("FSOBJ_DEBUGLEVEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid value %q for FSOBJ_DEBUGLEVEL: %w", v, err)
		}
		c.DebugLevel = n
	}
	return c.Validate()
}

// Validate checks the config is usable by a provider.
func (c Config) Validate() error {
	if len(c.DirectorySeparator) != 1 {
		return fmt.Errorf("directory_separator must be a single character, got %q", c.DirectorySeparator)
	}
	if len(c.AllowedPaths) == 0 {
		return fmt.Errorf("allowed_paths must not be empty")
	}
	return nil
}
