package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// errNoOrigin is returned by commands that act on a profile before boot has run
var errNoOrigin = errors.New("no console origin: run 'psconsole boot' or pass --origin")

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	Origin     string
	OriginFile string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("PSCONSOLE_SERVER", "http://localhost:8080"),
		Origin:     os.Getenv("PSCONSOLE_ORIGIN"),
		OriginFile: getEnvOrDefault("PSCONSOLE_ORIGIN_FILE", defaultOriginFile()),
		Output:     "text",
		Verbose:    false,
	}
}

// LoadOrigin loads the origin from file if not already set
func (c *Config) LoadOrigin() error {
	if c.Origin != "" {
		return nil
	}

	data, err := os.ReadFile(c.OriginFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Not booted yet
		}
		return err
	}

	c.Origin = strings.TrimSpace(string(data))
	return nil
}

// SaveOrigin saves the origin to the origin file
func (c *Config) SaveOrigin(origin string) error {
	c.Origin = origin

	dir := filepath.Dir(c.OriginFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.OriginFile, []byte(origin), 0600)
}

// ClearOrigin forgets the saved origin
func (c *Config) ClearOrigin() error {
	c.Origin = ""
	if err := os.Remove(c.OriginFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RequireOrigin fails when no origin is configured
func (c *Config) RequireOrigin() error {
	if c.Origin == "" {
		return errNoOrigin
	}
	return nil
}

func defaultOriginFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".psconsole/origin"
	}
	return filepath.Join(home, ".psconsole", "origin")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
