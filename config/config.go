// Package config loads mellowchord settings from YAML, .env files and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jsphweid/mellowchord/constants"
)

type Config struct {
	// WorkingDir is where MIDI and JSON files are written
	WorkingDir string `yaml:"working_dir"`
	// Program is the MIDI program (instrument) for every track
	Program  int  `yaml:"program"`
	Velocity int  `yaml:"velocity"`
	Autoplay bool `yaml:"autoplay"`
	MidiPort int  `yaml:"midi_port"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string       `yaml:"log_level"`
	Server   ServerConfig `yaml:"server"`
	Store    StoreConfig  `yaml:"store"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// SessionIdleTimeout drops an enumeration session nobody has pulled from
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
	// PageSize is the default and maximum progressions per request
	PageSize int `yaml:"page_size"`
	// MaxLength caps the progression length a session may ask for
	MaxLength      int      `yaml:"max_length"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type StoreConfig struct {
	// Backend is memory or dynamodb
	Backend  string `yaml:"backend"`
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Table    string `yaml:"table"`
}

func DefaultConfig() *Config {
	return &Config{
		WorkingDir: constants.GetWorkingDir(),
		Program:    0,
		Velocity:   constants.DefaultVelocity,
		MidiPort:   0,
		LogLevel:   "info",
		Server: ServerConfig{
			Addr:               ":8080",
			SessionIdleTimeout: 5 * time.Minute,
			PageSize:           50,
			MaxLength:          16,
			AllowedOrigins:     []string{"*"},
		},
		Store: StoreConfig{
			Backend:  "memory",
			Endpoint: "http://localhost:8000",
			Region:   "localhost",
			Table:    "mellowchord-progressions",
		},
	}
}

func (c *Config) Validate() error {
	if c.Program < 0 || c.Program > 127 {
		return fmt.Errorf("program must be between 0 and 127")
	}
	if c.Velocity < 1 || c.Velocity > 127 {
		return fmt.Errorf("velocity must be between 1 and 127")
	}
	if c.MidiPort < 0 {
		return fmt.Errorf("midi_port can't be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.SessionIdleTimeout <= 0 {
		return fmt.Errorf("server.session_idle_timeout must be positive")
	}
	if c.Server.PageSize < 1 {
		return fmt.Errorf("server.page_size must be at least 1")
	}
	if c.Server.MaxLength < 1 {
		return fmt.Errorf("server.max_length must be at least 1")
	}
	switch c.Store.Backend {
	case "memory":
	case "dynamodb":
		if c.Store.Table == "" {
			return fmt.Errorf("store.table is required for dynamodb")
		}
		if c.Store.Region == "" {
			return fmt.Errorf("store.region is required for dynamodb")
		}
	default:
		return fmt.Errorf("store.backend must be memory or dynamodb, got %q", c.Store.Backend)
	}
	return nil
}

// Level maps LogLevel onto slog.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge copies other's non-zero values over c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.WorkingDir != "" {
		c.WorkingDir = other.WorkingDir
	}
	if other.Program != 0 {
		c.Program = other.Program
	}
	if other.Velocity != 0 {
		c.Velocity = other.Velocity
	}
	if other.Autoplay {
		c.Autoplay = true
	}
	if other.MidiPort != 0 {
		c.MidiPort = other.MidiPort
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.SessionIdleTimeout != 0 {
		c.Server.SessionIdleTimeout = other.Server.SessionIdleTimeout
	}
	if other.Server.PageSize != 0 {
		c.Server.PageSize = other.Server.PageSize
	}
	if other.Server.MaxLength != 0 {
		c.Server.MaxLength = other.Server.MaxLength
	}
	if len(other.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = other.Server.AllowedOrigins
	}

	// Store
	if other.Store.Backend != "" {
		c.Store.Backend = other.Store.Backend
	}
	if other.Store.Endpoint != "" {
		c.Store.Endpoint = other.Store.Endpoint
	}
	if other.Store.Region != "" {
		c.Store.Region = other.Store.Region
	}
	if other.Store.Table != "" {
		c.Store.Table = other.Store.Table
	}
}

// ApplyEnv overrides fields from MELLOWCHORD_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(constants.EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	atoi := func(name string, dst *int) error {
		v, ok := get(name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", constants.EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}

	if v, ok := get("WORKING_DIR"); ok {
		c.WorkingDir = v
	}
	if err := atoi("PROGRAM", &c.Program); err != nil {
		return err
	}
	if err := atoi("VELOCITY", &c.Velocity); err != nil {
		return err
	}
	if err := atoi("MIDI_PORT", &c.MidiPort); err != nil {
		return err
	}
	if err := atoi("PAGE_SIZE", &c.Server.PageSize); err != nil {
		return err
	}
	if err := atoi("MAX_LENGTH", &c.Server.MaxLength); err != nil {
		return err
	}
	if v, ok := get("AUTOPLAY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sAUTOPLAY: %w", constants.EnvPrefix, err)
		}
		c.Autoplay = b
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := get("SESSION_IDLE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSESSION_IDLE_TIMEOUT: %w", constants.EnvPrefix, err)
		}
		c.Server.SessionIdleTimeout = d
	}
	if v, ok := get("ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v, ok := get("STORE_BACKEND"); ok {
		c.Store.Backend = v
	}
	if v, ok := get("STORE_ENDPOINT"); ok {
		c.Store.Endpoint = v
	}
	if v, ok := get("STORE_REGION"); ok {
		c.Store.Region = v
	}
	if v, ok := get("STORE_TABLE"); ok {
		c.Store.Table = v
	}
	return nil
}
