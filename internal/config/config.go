package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Session   SessionConfig   `yaml:"session"`
	Bounds    Bounds          `yaml:"bounds"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type SessionConfig struct {
	Limit                int `yaml:"limit"`
	IdleTimeoutMinutes   int `yaml:"idle_timeout_minutes"`
	GracePeriodSeconds   int `yaml:"grace_period_seconds"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
}

// Bounds are the accepted ranges for mode parameters. Session creation
// rejects anything outside them.
type Bounds struct {
	MinRepetitions int `yaml:"min_repetitions"`
	MaxRepetitions int `yaml:"max_repetitions"`
	MinTempoBPM    int `yaml:"min_tempo_bpm"`
	MaxTempoBPM    int `yaml:"max_tempo_bpm"`
	MinDurationSec int `yaml:"min_duration_seconds"`
	MaxDurationSec int `yaml:"max_duration_seconds"`
	MinIntervalMs  int `yaml:"min_interval_ms"`
	MaxIntervalMs  int `yaml:"max_interval_ms"`
	MinWorkSec     int `yaml:"min_work_seconds"`
	MaxWorkSec     int `yaml:"max_work_seconds"`
	MaxRestSec     int `yaml:"max_rest_seconds"`
	MaxSets        int `yaml:"max_sets"`
}

// Default returns a config with all defaults applied. Load starts from this
// so a minimal YAML file only needs to override what it cares about.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		Session: SessionConfig{
			Limit:                100,
			IdleTimeoutMinutes:   30,
			GracePeriodSeconds:   60,
			SweepIntervalSeconds: 30,
		},
		Bounds: Bounds{
			MinRepetitions: 5,
			MaxRepetitions: 50,
			MinTempoBPM:    30,
			MaxTempoBPM:    120,
			MinDurationSec: 10,
			MaxDurationSec: 600,
			MinIntervalMs:  200,
			MaxIntervalMs:  10000,
			MinWorkSec:     5,
			MaxWorkSec:     300,
			MaxRestSec:     120,
			MaxSets:        20,
		},
	}
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix FENCINGDRILL_ and underscore-separated
// paths:
//
//	FENCINGDRILL_SERVER_HOST, FENCINGDRILL_SERVER_PORT,
//	FENCINGDRILL_SESSION_LIMIT, FENCINGDRILL_SESSION_IDLE_TIMEOUT_MINUTES,
//	FENCINGDRILL_TS_ENABLED, FENCINGDRILL_TS_HOSTNAME, FENCINGDRILL_TS_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FENCINGDRILL_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FENCINGDRILL_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FENCINGDRILL_SESSION_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.Limit = n
		}
	}
	if v := os.Getenv("FENCINGDRILL_SESSION_IDLE_TIMEOUT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.IdleTimeoutMinutes = n
		}
	}
	if v := os.Getenv("FENCINGDRILL_TS_ENABLED"); v != "" {
		cfg.Tailscale.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("FENCINGDRILL_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("FENCINGDRILL_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Session.Limit <= 0 {
		return fmt.Errorf("session.limit must be positive")
	}
	if c.Session.IdleTimeoutMinutes <= 0 {
		return fmt.Errorf("session.idle_timeout_minutes must be positive")
	}
	if c.Session.GracePeriodSeconds < 0 {
		return fmt.Errorf("session.grace_period_seconds must not be negative")
	}
	if c.Session.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("session.sweep_interval_seconds must be positive")
	}
	if c.Bounds.MinRepetitions <= 0 || c.Bounds.MaxRepetitions < c.Bounds.MinRepetitions {
		return fmt.Errorf("bounds: repetitions range is invalid")
	}
	if c.Bounds.MinTempoBPM <= 0 || c.Bounds.MaxTempoBPM < c.Bounds.MinTempoBPM {
		return fmt.Errorf("bounds: tempo range is invalid")
	}
	if c.Bounds.MinIntervalMs <= 0 || c.Bounds.MaxIntervalMs < c.Bounds.MinIntervalMs {
		return fmt.Errorf("bounds: interval range is invalid")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
