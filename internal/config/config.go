package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/retrygen/internal/transform"
	"github.com/vvka-141/retrygen/pkg/retrygen"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ProjectConfig is the content of retrygen.yaml. Omitted keys keep their
// defaults.
type ProjectConfig struct {
	Directive          string   `yaml:"directive"`
	DefaultRetries     int      `yaml:"default_retries"`
	NamePrefix         string   `yaml:"name_prefix"`
	Naming             string   `yaml:"naming"`
	UnreachableMessage string   `yaml:"unreachable_message"`
	Exclude            []string `yaml:"exclude,omitempty"`
	Concurrency        int      `yaml:"concurrency,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Directive:          retrygen.DefaultDirective,
		DefaultRetries:     retrygen.DefaultRetries,
		NamePrefix:         retrygen.DefaultNamePrefix,
		Naming:             retrygen.NamingSequential,
		UnreachableMessage: retrygen.DefaultUnreachableMessage,
	}
}

// Load reads retrygen.yaml from the given directory.
func Load(sourcePath string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(sourcePath, retrygen.ConfigFileName))
}

// LoadFile reads and validates a configuration file. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func LoadFile(configPath string) (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", retrygen.ErrInvalidConfig, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks value ranges. Errors wrap retrygen.ErrInvalidConfig.
func (c *ProjectConfig) Validate() error {
	switch {
	case c.Directive == "":
		return fmt.Errorf("%w: directive must not be empty", retrygen.ErrInvalidConfig)
	case strings.HasPrefix(c.Directive, "//"):
		return fmt.Errorf("%w: directive %q must be written without the leading slashes", retrygen.ErrInvalidConfig, c.Directive)
	case strings.ContainsAny(c.Directive, " \t\n"):
		return fmt.Errorf("%w: directive %q must not contain whitespace", retrygen.ErrInvalidConfig, c.Directive)
	case c.DefaultRetries <= 0:
		return fmt.Errorf("%w: default_retries must be positive, got %d", retrygen.ErrInvalidConfig, c.DefaultRetries)
	case !transform.ValidPrefix(c.NamePrefix):
		return fmt.Errorf("%w: name_prefix %q is not a Go identifier", retrygen.ErrInvalidConfig, c.NamePrefix)
	case c.Naming != retrygen.NamingSequential && c.Naming != retrygen.NamingHashed:
		return fmt.Errorf("%w: naming must be %q or %q, got %q",
			retrygen.ErrInvalidConfig, retrygen.NamingSequential, retrygen.NamingHashed, c.Naming)
	case c.Concurrency < 0:
		return fmt.Errorf("%w: concurrency must not be negative, got %d", retrygen.ErrInvalidConfig, c.Concurrency)
	}

	for _, pattern := range c.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: exclude pattern %q: %v", retrygen.ErrInvalidConfig, pattern, err)
		}
	}
	return nil
}
