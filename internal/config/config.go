// Package config provides persistent configuration for the ramadan-times CLI.
//
// Configuration is stored as JSON at ~/.config/ramadan-times/config.json
// (XDG-compliant). Environment variables prefixed with RAMADAN_TIMES_, optionally
// loaded from a .env file, sit between flags and the file. The merge priority
// is: CLI flags > environment > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

const (
	configDirName  = "ramadan-times"
	configFileName = "config.json"

	// EnvPrefix is prepended to every environment key, e.g. RAMADAN_TIMES_METHOD.
	EnvPrefix = "RAMADAN_TIMES"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"latitude", "longitude",
	"method", "school",
	"timezone",
	"adjustment",
	"time_format",
	"format",
	"base_url",
	"log_level", "log_format",
}

// Config holds all user-configurable settings.
// Nil and empty values mean "not set".
type Config struct {
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Method     *int     `json:"method,omitempty"`
	School     *int     `json:"school,omitempty"`
	Timezone   string   `json:"timezone,omitempty"`
	Adjustment *int     `json:"adjustment,omitempty"`
	TimeFormat string   `json:"time_format,omitempty" split_words:"true"` // "12h" or "24h"
	Format     string   `json:"format,omitempty"`                         // countdown output mode
	BaseURL    string   `json:"base_url,omitempty" split_words:"true"`
	LogLevel   string   `json:"log_level,omitempty" split_words:"true"`
	LogFormat  string   `json:"log_format,omitempty" split_words:"true"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	lat, lon := 23.8103, 90.4125
	method, school, adjustment := 1, 1, 0
	return Config{
		Latitude:   &lat,
		Longitude:  &lon,
		Method:     &method,
		School:     &school,
		Timezone:   "Asia/Dhaka",
		Adjustment: &adjustment,
		TimeFormat: "24h",
		Format:     "full",
		BaseURL:    "https://api.aladhan.com/v1",
		LogLevel:   "warn",
		LogFormat:  "console",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// FromEnv reads RAMADAN_TIMES_* variables after loading ./.env if present.
// Variables that are not set stay nil or empty. A .env that exists but does
// not parse is an error.
func FromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Merge returns c with every field that is set in over replaced by over's value.
func (c Config) Merge(over *Config) Config {
	if over == nil {
		return c
	}
	if over.Latitude != nil {
		c.Latitude = over.Latitude
	}
	if over.Longitude != nil {
		c.Longitude = over.Longitude
	}
	if over.Method != nil {
		c.Method = over.Method
	}
	if over.School != nil {
		c.School = over.School
	}
	if over.Timezone != "" {
		c.Timezone = over.Timezone
	}
	if over.Adjustment != nil {
		c.Adjustment = over.Adjustment
	}
	if over.TimeFormat != "" {
		c.TimeFormat = over.TimeFormat
	}
	if over.Format != "" {
		c.Format = over.Format
	}
	if over.BaseURL != "" {
		c.BaseURL = over.BaseURL
	}
	if over.LogLevel != "" {
		c.LogLevel = over.LogLevel
	}
	if over.LogFormat != "" {
		c.LogFormat = over.LogFormat
	}
	return c
}

// Validate checks every set value with the same rules as Set.
func (c *Config) Validate() error {
	var errs []error
	scratch := Config{}
	for _, key := range ValidKeys {
		val, _ := c.Get(key)
		if val == "" {
			continue
		}
		if err := scratch.Set(key, val); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: must be a number", value)
		}
		if v < -90 || v > 90 {
			return fmt.Errorf("invalid latitude %q: must be between -90 and 90", value)
		}
		c.Latitude = &v
	case "longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: must be a number", value)
		}
		if v < -180 || v > 180 {
			return fmt.Errorf("invalid longitude %q: must be between -180 and 180", value)
		}
		c.Longitude = &v
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if v < 0 || v > 23 {
			return fmt.Errorf("invalid method %q: must be between 0 and 23", value)
		}
		c.Method = &v
	case "school":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid school %q: must be an integer", value)
		}
		if v != 0 && v != 1 {
			return fmt.Errorf("invalid school %q: must be 0 (Shafi) or 1 (Hanafi)", value)
		}
		c.School = &v
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Timezone = value
	case "adjustment":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid adjustment %q: must be an integer", value)
		}
		if v < -3 || v > 3 {
			return fmt.Errorf("invalid adjustment %q: must be between -3 and 3 days", value)
		}
		c.Adjustment = &v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "format":
		c.Format = value
	case "base_url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid base_url %q: must be an http(s) URL", value)
		}
		c.BaseURL = strings.TrimRight(value, "/")
	case "log_level":
		if _, err := zerolog.ParseLevel(strings.ToLower(value)); err != nil {
			return fmt.Errorf("invalid log_level %q: %w", value, err)
		}
		c.LogLevel = value
	case "log_format":
		if value != "console" && value != "json" {
			return fmt.Errorf("invalid log_format %q: must be \"console\" or \"json\"", value)
		}
		c.LogFormat = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		return formatFloat(c.Latitude), nil
	case "longitude":
		return formatFloat(c.Longitude), nil
	case "method":
		return formatInt(c.Method), nil
	case "school":
		return formatInt(c.School), nil
	case "timezone":
		return c.Timezone, nil
	case "adjustment":
		return formatInt(c.Adjustment), nil
	case "time_format":
		return c.TimeFormat, nil
	case "format":
		return c.Format, nil
	case "base_url":
		return c.BaseURL, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// SchoolOrDefault returns the school value, falling back to the given default.
func (c *Config) SchoolOrDefault(def int) int {
	if c.School != nil {
		return *c.School
	}
	return def
}

// AdjustmentOrDefault returns the adjustment, falling back to the given default.
func (c *Config) AdjustmentOrDefault(def int) int {
	if c.Adjustment != nil {
		return *c.Adjustment
	}
	return def
}

// TimeLayout returns the Go layout matching TimeFormat.
func (c *Config) TimeLayout() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// Location loads the configured time zone. An empty zone means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
