// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/util"
)

// Environment variables.
const (
	EnvHome           = "SAHPAATHI_HOME"
	EnvBaseURL        = "SAHPAATHI_BASE_URL"
	EnvTimeoutSecs    = "SAHPAATHI_TIMEOUT_SECS"
	EnvLogLevel       = "SAHPAATHI_LOG_LEVEL"
	EnvDataDir        = "SAHPAATHI_DATA_DIR"
	EnvLegacyFallback = "SAHPAATHI_LEGACY_FALLBACK"
)

// LogDisabled as log.file turns file logging off.
const LogDisabled = "off"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete sahpaathi configuration.
type Config struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	Chat    ChatConfig    `toml:"chat" json:"chat"`
	History HistoryConfig `toml:"history" json:"history"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// ServerConfig is where the tutoring backend lives.
type ServerConfig struct {
	BaseURL     string `toml:"base_url" json:"base_url"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`

	// LegacyFallback retries a failed chat once with the older
	// {message, session_id} body.
	LegacyFallback bool `toml:"legacy_fallback" json:"legacy_fallback"`
}

// ChatConfig controls the chat transcript.
type ChatConfig struct {
	ReplyDelayMs int    `toml:"reply_delay_ms" json:"reply_delay_ms"`
	WelcomeTitle string `toml:"welcome_title" json:"welcome_title"`
	WelcomeText  string `toml:"welcome_text" json:"welcome_text"`
}

// HistoryConfig controls history replay.
type HistoryConfig struct {
	// ReplayIntervalMs staggers replayed messages. 0 replays at once.
	ReplayIntervalMs int `toml:"replay_interval_ms" json:"replay_interval_ms"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	SidebarOpen bool `toml:"sidebar_open" json:"sidebar_open"`

	// WordWrap is the wrap width for rendered replies; 0 follows the terminal.
	WordWrap int `toml:"word_wrap" json:"word_wrap"`
}

// StorageConfig locates local state.
type StorageConfig struct {
	// DataDir holds the prefs database and log; empty means the config dir.
	DataDir string `toml:"data_dir" json:"data_dir"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`

	// File is the log path; empty means <data_dir>/sahpaathi.log, "off" disables.
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:     "http://127.0.0.1:5001",
			TimeoutSecs: 60,
		},
		Chat: ChatConfig{
			ReplyDelayMs: 300,
			WelcomeTitle: "Welcome to SAHPAATHI",
			WelcomeText:  "Ask me anything about your studies!",
		},
		History: HistoryConfig{ReplayIntervalMs: 200},
		UI:      UIConfig{SidebarOpen: true},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// fillDefaults restores string fields left empty by a partial file.
func fillDefaults(cfg *Config) {
	d := Default()
	if strings.TrimSpace(cfg.Server.BaseURL) == "" {
		cfg.Server.BaseURL = d.Server.BaseURL
	}
	if cfg.Chat.WelcomeTitle == "" {
		cfg.Chat.WelcomeTitle = d.Chat.WelcomeTitle
	}
	if cfg.Chat.WelcomeText == "" {
		cfg.Chat.WelcomeText = d.Chat.WelcomeText
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = d.Log.Format
	}
	cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Server.BaseURL), "/")
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

func (c *Config) ReplyDelay() time.Duration {
	return time.Duration(c.Chat.ReplyDelayMs) * time.Millisecond
}

func (c *Config) ReplayInterval() time.Duration {
	return time.Duration(c.History.ReplayIntervalMs) * time.Millisecond
}

// DataDir resolves storage.data_dir, defaulting to the config directory.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return expandHome(c.Storage.DataDir)
	}
	return ConfigDir()
}

// DBPath is the prefs database location.
func (c *Config) DBPath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sahpaathi.db"), nil
}

// LogPath is the log file location, or "" when logging to file is off.
func (c *Config) LogPath() (string, error) {
	switch strings.TrimSpace(c.Log.File) {
	case LogDisabled:
		return "", nil
	case "":
		dir, err := c.DataDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "sahpaathi.log"), nil
	default:
		return expandHome(c.Log.File)
	}
}

func expandHome(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
	}
	return p, nil
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the configuration directory: $SAHPAATHI_HOME or
// ~/.sahpaathi.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".sahpaathi"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Path returns the file Load would read: the TOML file, else an existing
// JSON file, else the TOML path.
func Path() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if fileExists(tomlPath) {
		return tomlPath, nil
	}
	if jsonPath, err := ConfigPathJSON(); err == nil && fileExists(jsonPath) {
		return jsonPath, nil
	}
	return tomlPath, nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env from the working directory and the config
// directory. Variables already set win; missing files are skipped.
func LoadDotEnv() error {
	var files []string
	if fileExists(".env") {
		files = append(files, ".env")
	}
	if dir, err := ConfigDir(); err == nil {
		if p := filepath.Join(dir, ".env"); fileExists(p) {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load reads .env files, then the config file, then applies environment
// overrides and validates. With no file the defaults are used.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if !fileExists(path) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads a specific file (JSON by extension, TOML otherwise)
// over the defaults, applies environment overrides and validates.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON config: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode JSON config %s: %w", path, err)
		}
	} else {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to decode TOML config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, ValidateErrors{{Field: strings.Join(keys, ", "), Message: "unknown key"}}
		}
	}

	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg as TOML to the default path.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# sahpaathi configuration file\n")
	buf.WriteString("# Environment variables (SAHPAATHI_*) override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid field.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate reports every invalid field, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if u, err := url.Parse(c.Server.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("server.base_url", fmt.Sprintf("must be an http(s) URL, got %q", c.Server.BaseURL))
	}
	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 600 {
		add("server.timeout_secs", "must be between 1 and 600")
	}
	if c.Chat.ReplyDelayMs < 0 || c.Chat.ReplyDelayMs > 10000 {
		add("chat.reply_delay_ms", "must be between 0 and 10000")
	}
	if c.History.ReplayIntervalMs < 0 || c.History.ReplayIntervalMs > 5000 {
		add("history.replay_interval_ms", "must be between 0 and 5000")
	}
	if c.UI.WordWrap != 0 && (c.UI.WordWrap < 20 || c.UI.WordWrap > 500) {
		add("ui.word_wrap", "must be 0 or between 20 and 500")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("log.level", fmt.Sprintf("must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "logfmt":
	default:
		add("log.format", fmt.Sprintf("must be text, json or logfmt, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies SAHPAATHI_* environment variables. Unparsable
// numbers and booleans are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Server.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv(EnvTimeoutSecs); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.TimeoutSecs = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv(EnvLegacyFallback); v != "" {
		if b, ok := parseBool(v); ok {
			c.Server.LegacyFallback = b
		}
	}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get returns the value at a dotted key named by TOML tags
// ("server.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set parses value into the field at key. The config is not validated;
// call Validate before saving.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", key, value)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, ok := parseBool(value)
		if !ok {
			return fmt.Errorf("%s: invalid boolean %q", key, value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("%s: cannot be set", key)
	}
	return nil
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, strings.ReplaceAll(strings.ToLower(part), "-", "_"))
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown key: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("%s is a section, not a key", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("%s is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("unknown key: %s", key)
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if tomlName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tomlName(f reflect.StructField) string {
	tag := f.Tag.Get("toml")
	if i := strings.IndexByte(tag, ','); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

// Keys returns every settable key in dot notation, sorted.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, tomlName(section)+"."+tomlName(section.Type.Field(j)))
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy. Config holds no reference types.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the config as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
