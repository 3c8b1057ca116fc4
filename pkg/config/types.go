package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent switchboard configuration stored as
// config.toml in the .switchboard/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Storage  StorageConfig  `toml:"storage"`
	API      APIConfig      `toml:"api"`
	Provider ProviderConfig `toml:"provider"`
	Engine   EngineConfig   `toml:"engine"`
	Events   EventsConfig   `toml:"events"`
	Client   ClientConfig   `toml:"client"`
}

// StorageConfig selects and configures the session store driver.
type StorageConfig struct {
	// Driver is one of "memory", "sqlite", "postgres".
	Driver      string `toml:"driver,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresURL string `toml:"postgres_url,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ProviderConfig holds model-provider client settings.
type ProviderConfig struct {
	BaseURL        string  `toml:"base_url,omitempty"`
	Model          string  `toml:"model,omitempty"`
	APIKey         string  `toml:"api_key,omitempty"`
	Temperature    float64 `toml:"temperature,omitempty"`
	MaxTokens      int     `toml:"max_tokens,omitempty"`
	CallTimeoutSec int     `toml:"call_timeout_seconds,omitempty"`
	SystemPrompt   string  `toml:"system_prompt,omitempty"`
}

// EngineConfig holds router settings.
type EngineConfig struct {
	// ContextWindow is how many recent turns the conversational handler
	// passes to the provider.
	ContextWindow int `toml:"context_window,omitempty"`

	// RecentSessions bounds the recent-session list in statistics.
	RecentSessions int `toml:"recent_sessions,omitempty"`
}

// EventsConfig holds turn event publishing settings.
type EventsConfig struct {
	// Provider is "none" or "kafka".
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// API server (e.g. switchboard chat). Values are full URLs.
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.driver": {
		get: func(c *Config) string { return c.Storage.Driver },
		set: func(c *Config, v string) error { c.Storage.Driver = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_url": {
		get: func(c *Config) string { return c.Storage.PostgresURL },
		set: func(c *Config, v string) error { c.Storage.PostgresURL = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"provider.base_url": {
		get: func(c *Config) string { return c.Provider.BaseURL },
		set: func(c *Config, v string) error { c.Provider.BaseURL = v; return nil },
	},
	"provider.model": {
		get: func(c *Config) string { return c.Provider.Model },
		set: func(c *Config, v string) error { c.Provider.Model = v; return nil },
	},
	"provider.api_key": {
		get: func(c *Config) string { return c.Provider.APIKey },
		set: func(c *Config, v string) error { c.Provider.APIKey = v; return nil },
	},
	"provider.temperature": {
		get: func(c *Config) string {
			return strconv.FormatFloat(c.Provider.Temperature, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for provider.temperature: %w", err)
			}
			c.Provider.Temperature = f
			return nil
		},
	},
	"provider.max_tokens": {
		get: func(c *Config) string { return strconv.Itoa(c.Provider.MaxTokens) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for provider.max_tokens: %w", err)
			}
			c.Provider.MaxTokens = n
			return nil
		},
	},
	"provider.call_timeout_seconds": {
		get: func(c *Config) string { return strconv.Itoa(c.Provider.CallTimeoutSec) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for provider.call_timeout_seconds: %w", err)
			}
			c.Provider.CallTimeoutSec = n
			return nil
		},
	},
	"provider.system_prompt": {
		get: func(c *Config) string { return c.Provider.SystemPrompt },
		set: func(c *Config, v string) error { c.Provider.SystemPrompt = v; return nil },
	},
	"engine.context_window": {
		get: func(c *Config) string { return strconv.Itoa(c.Engine.ContextWindow) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for engine.context_window: %w", err)
			}
			c.Engine.ContextWindow = n
			return nil
		},
	},
	"engine.recent_sessions": {
		get: func(c *Config) string { return strconv.Itoa(c.Engine.RecentSessions) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for engine.recent_sessions: %w", err)
			}
			c.Engine.RecentSessions = n
			return nil
		},
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
}
