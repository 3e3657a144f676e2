// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for amiselected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/amiselected/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete amiselected configuration.
type Config struct {
	Session SessionConfig `toml:"session"`
	Stages  StagesConfig  `toml:"stages"`
	Lookup  LookupConfig  `toml:"lookup"`
	Invites InvitesConfig `toml:"invites"`
	UI      UIConfig      `toml:"ui"`
	Logging LoggingConfig `toml:"logging"`
}

// SessionConfig contains interactive session settings.
type SessionConfig struct {
	// Prompt printed before echoed commands
	Prompt string `toml:"prompt"`

	// SoundEnabled is the initial sound toggle
	SoundEnabled bool `toml:"sound_enabled"`
}

// StagesConfig contains the status check stage delays.
type StagesConfig struct {
	ProcessingDelayMs int `toml:"processing_delay_ms"`
	CheckingDelayMs   int `toml:"checking_delay_ms"`
	AnalyzingDelayMs  int `toml:"analyzing_delay_ms"`
}

// LookupConfig selects and tunes the lookup backend.
type LookupConfig struct {
	// Backend is one of: sqlite, roster, static
	Backend string `toml:"backend"`

	// DatabasePath is the SQLite database for the sqlite backend
	DatabasePath string `toml:"database_path"`

	// RosterPath is the roster file for the roster backend
	RosterPath string `toml:"roster_path"`

	// DelayMs is artificial latency added to every lookup
	DelayMs int `toml:"delay_ms"`

	// RatePerSecond and Burst throttle calls to the backend
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`

	// DemoIdentifier is always selected by the static backend
	DemoIdentifier string `toml:"demo_identifier"`
}

// InvitesConfig holds the links shown with a verdict.
type InvitesConfig struct {
	SelectedURL string `toml:"selected_url"`
	UpdatesURL  string `toml:"updates_url"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is one of: auto, dark, light
	Theme     string `toml:"theme"`
	AltScreen bool   `toml:"alt_screen"`
}

// LoggingConfig controls the rotating log file.
type LoggingConfig struct {
	Dir        string `toml:"dir"`
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultDemoIdentifier is the identifier the static backend always selects.
const DefaultDemoIdentifier = "231030069@juitsolan.in"

// Default returns a Config with default values.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = ".amiselected"
	}
	return &Config{
		Session: SessionConfig{
			Prompt:       "user@siam-juit:~$",
			SoundEnabled: true,
		},
		Stages: StagesConfig{
			ProcessingDelayMs: 1000,
			CheckingDelayMs:   800,
			AnalyzingDelayMs:  1000,
		},
		Lookup: LookupConfig{
			Backend:        "sqlite",
			DatabasePath:   filepath.Join(dir, "selection.db"),
			DelayMs:        1500,
			RatePerSecond:  2,
			Burst:          2,
			DemoIdentifier: DefaultDemoIdentifier,
		},
		Invites: InvitesConfig{
			SelectedURL: "https://chat.whatsapp.com/CmmUwGFFJ5fIZgFm4iEj4N",
			UpdatesURL:  "https://chat.whatsapp.com/LW6DVKRcRTM3Ux5aoQigN1",
		},
		UI: UIConfig{
			Theme:     "auto",
			AltScreen: true,
		},
		Logging: LoggingConfig{
			Dir:        filepath.Join(dir, "logs"),
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Delays returns the stage delays as durations.
func (s StagesConfig) Delays() [3]time.Duration {
	return [3]time.Duration{
		time.Duration(s.ProcessingDelayMs) * time.Millisecond,
		time.Duration(s.CheckingDelayMs) * time.Millisecond,
		time.Duration(s.AnalyzingDelayMs) * time.Millisecond,
	}
}

// Delay returns the artificial lookup latency.
func (l LookupConfig) Delay() time.Duration {
	return time.Duration(l.DelayMs) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the amiselected configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".amiselected"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ensureSecurePermissions tightens a config file to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// ExpandPath expands a leading "~" to the home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from path, or from the default location when
// path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPathTOML()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg and fills missing values.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Session.Prompt == "" {
		cfg.Session.Prompt = defaults.Session.Prompt
	}

	if cfg.Stages.ProcessingDelayMs == 0 {
		cfg.Stages.ProcessingDelayMs = defaults.Stages.ProcessingDelayMs
	}
	if cfg.Stages.CheckingDelayMs == 0 {
		cfg.Stages.CheckingDelayMs = defaults.Stages.CheckingDelayMs
	}
	if cfg.Stages.AnalyzingDelayMs == 0 {
		cfg.Stages.AnalyzingDelayMs = defaults.Stages.AnalyzingDelayMs
	}

	if cfg.Lookup.Backend == "" {
		cfg.Lookup.Backend = defaults.Lookup.Backend
	}
	if cfg.Lookup.DatabasePath == "" {
		cfg.Lookup.DatabasePath = defaults.Lookup.DatabasePath
	}
	if cfg.Lookup.RatePerSecond == 0 {
		cfg.Lookup.RatePerSecond = defaults.Lookup.RatePerSecond
	}
	if cfg.Lookup.Burst == 0 {
		cfg.Lookup.Burst = defaults.Lookup.Burst
	}
	if cfg.Lookup.DemoIdentifier == "" {
		cfg.Lookup.DemoIdentifier = defaults.Lookup.DemoIdentifier
	}

	if cfg.Invites.SelectedURL == "" {
		cfg.Invites.SelectedURL = defaults.Invites.SelectedURL
	}
	if cfg.Invites.UpdatesURL == "" {
		cfg.Invites.UpdatesURL = defaults.Invites.UpdatesURL
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Logging.Format
	}
}

func (c *Config) expandPaths() {
	c.Lookup.DatabasePath = ExpandPath(c.Lookup.DatabasePath)
	c.Lookup.RosterPath = ExpandPath(c.Lookup.RosterPath)
	c.Logging.Dir = ExpandPath(c.Logging.Dir)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Encode renders the configuration as TOML with a header comment.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# amiselected configuration file\n")
	buf.WriteString("# Generated by amiselected - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveTOML writes the configuration to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	delays := map[string]int{
		"stages.processing_delay_ms": c.Stages.ProcessingDelayMs,
		"stages.checking_delay_ms":   c.Stages.CheckingDelayMs,
		"stages.analyzing_delay_ms":  c.Stages.AnalyzingDelayMs,
		"lookup.delay_ms":            c.Lookup.DelayMs,
	}
	for _, field := range []string{
		"stages.processing_delay_ms", "stages.checking_delay_ms",
		"stages.analyzing_delay_ms", "lookup.delay_ms",
	} {
		if delays[field] < 0 {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must not be negative, got %d", delays[field]),
			})
		}
	}

	switch strings.ToLower(c.Lookup.Backend) {
	case "sqlite":
		if c.Lookup.DatabasePath == "" {
			errs = append(errs, ValidationError{Field: "lookup.database_path", Message: "required for sqlite backend"})
		}
	case "roster":
		if c.Lookup.RosterPath == "" {
			errs = append(errs, ValidationError{Field: "lookup.roster_path", Message: "required for roster backend"})
		}
	case "static":
	default:
		errs = append(errs, ValidationError{
			Field:   "lookup.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: sqlite, roster, static", c.Lookup.Backend),
		})
	}

	if c.Lookup.RatePerSecond <= 0 {
		errs = append(errs, ValidationError{
			Field:   "lookup.rate_per_second",
			Message: fmt.Sprintf("must be positive, got %v", c.Lookup.RatePerSecond),
		})
	}
	if c.Lookup.Burst < 1 {
		errs = append(errs, ValidationError{
			Field:   "lookup.burst",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Lookup.Burst),
		})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}
	if f := strings.ToLower(c.Logging.Format); f != "json" && f != "text" {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: json, text", c.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - AMISELECTED_DB: overrides lookup.database_path
//   - AMISELECTED_BACKEND: overrides lookup.backend
//   - AMISELECTED_ROSTER: overrides lookup.roster_path
//   - AMISELECTED_LOG_DIR: overrides logging.dir
//   - AMISELECTED_LOG_LEVEL: overrides logging.level
//   - AMISELECTED_SOUND: "1"/"true" or "0"/"false"
//   - AMISELECTED_SELECTED_URL: overrides invites.selected_url
//   - AMISELECTED_UPDATES_URL: overrides invites.updates_url
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("AMISELECTED_DB"); v != "" {
		c.Lookup.DatabasePath = v
	}
	if v := os.Getenv("AMISELECTED_BACKEND"); v != "" {
		c.Lookup.Backend = v
	}
	if v := os.Getenv("AMISELECTED_ROSTER"); v != "" {
		c.Lookup.RosterPath = v
	}
	if v := os.Getenv("AMISELECTED_LOG_DIR"); v != "" {
		c.Logging.Dir = v
	}
	if v := os.Getenv("AMISELECTED_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("AMISELECTED_SOUND"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Session.SoundEnabled = b
		}
	}
	if v := os.Getenv("AMISELECTED_SELECTED_URL"); v != "" {
		c.Invites.SelectedURL = v
	}
	if v := os.Getenv("AMISELECTED_UPDATES_URL"); v != "" {
		c.Invites.UpdatesURL = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "lookup.backend").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookupField(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookupField(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookupField(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds the struct field whose toml tag is name.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns all configuration keys in dot notation.
func Keys() []string {
	var keys []string
	v := reflect.TypeOf(Config{})
	for i := 0; i < v.NumField(); i++ {
		section := v.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}
