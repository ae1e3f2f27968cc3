package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names accepted by LoadReader.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// FormatForPath returns the format implied by the file extension.
func FormatForPath(path string) (string, error) {
	return normalizeFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

func normalizeFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Load reads the configuration at path. A missing file yields Default.
func Load(path string) (*Config, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return parse(path, format, data)
}

// LoadReader reads configuration in the named format from r.
func LoadReader(r io.Reader, format string) (*Config, error) {
	format, err := normalizeFormat(format)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return parse("<reader>", format, data)
}

// parse decodes data over the defaults and validates the result.
func parse(source, format string, data []byte) (*Config, error) {
	cfg := Default()

	var err error
	switch format {
	case FormatTOML:
		err = decodeTOML(source, data, cfg)
	case FormatYAML:
		err = decodeYAML(source, data, cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", source, err)
	}
	return cfg, nil
}

func decodeTOML(source string, data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

func decodeYAML(source string, data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}
	return nil
}
