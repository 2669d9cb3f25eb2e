package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Stats     StatsConfig     `yaml:"stats"`
}

type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Migrations string `yaml:"migrations"`
	MCP        bool   `yaml:"mcp"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// StatsConfig controls how sessions are bucketed into calendar days.
type StatsConfig struct {
	Timezone string `yaml:"timezone"`

	loc *time.Location
}

// Location returns the configured timezone, or time.Local when unset.
func (s StatsConfig) Location() *time.Location {
	if s.loc != nil {
		return s.loc
	}
	return time.Local
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix SETCLOCK_ and underscore-separated paths:
//
//	SETCLOCK_SERVER_HOST, SETCLOCK_SERVER_PORT, SETCLOCK_SERVER_MIGRATIONS, SETCLOCK_SERVER_MCP,
//	SETCLOCK_DB_HOST, SETCLOCK_DB_PORT, SETCLOCK_DB_NAME,
//	SETCLOCK_DB_USER, SETCLOCK_DB_PASSWORD, SETCLOCK_DB_SSLMODE,
//	SETCLOCK_TS_ENABLED, SETCLOCK_TS_HOSTNAME, SETCLOCK_TS_STATE_DIR,
//	SETCLOCK_STATS_TIMEZONE
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:    ServerConfig{Migrations: "migrations", MCP: true},
		Tailscale: TailscaleConfig{Hostname: "setclock", StateDir: "tsnet-state"},
	}

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

// envOverrides maps SETCLOCK_* variable suffixes to the field they set.
// Values that fail to parse are ignored and the file value is kept.
func envOverrides(cfg *Config) map[string]func(string) {
	return map[string]func(string){
		"SERVER_HOST":       setString(&cfg.Server.Host),
		"SERVER_PORT":       setInt(&cfg.Server.Port),
		"SERVER_MIGRATIONS": setString(&cfg.Server.Migrations),
		"SERVER_MCP":        setBool(&cfg.Server.MCP),
		"DB_HOST":           setString(&cfg.Database.Host),
		"DB_PORT":           setInt(&cfg.Database.Port),
		"DB_NAME":           setString(&cfg.Database.Name),
		"DB_USER":           setString(&cfg.Database.User),
		"DB_PASSWORD":       setString(&cfg.Database.Password),
		"DB_SSLMODE":        setString(&cfg.Database.SSLMode),
		"TS_ENABLED":        setBool(&cfg.Tailscale.Enabled),
		"TS_HOSTNAME":       setString(&cfg.Tailscale.Hostname),
		"TS_STATE_DIR":      setString(&cfg.Tailscale.StateDir),
		"STATS_TIMEZONE":    setString(&cfg.Stats.Timezone),
	}
}

func applyEnvOverrides(cfg *Config) {
	for suffix, set := range envOverrides(cfg) {
		if v := os.Getenv(envPrefix + suffix); v != "" {
			set(v)
		}
	}
}

const envPrefix = "SETCLOCK_"

func setString(dst *string) func(string) {
	return func(v string) { *dst = v }
}

func setInt(dst *int) func(string) {
	return func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool) func(string) {
	return func(v string) {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Stats.Timezone != "" {
		loc, err := time.LoadLocation(c.Stats.Timezone)
		if err != nil {
			return fmt.Errorf("stats.timezone: %w", err)
		}
		c.Stats.loc = loc
	}
	return nil
}
