// Package config handles loading annum.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the annum.toml configuration file.
type Config struct {
	Backend Backend `toml:"backend"`
	Auth    Auth    `toml:"auth"`
	Serve   Serve   `toml:"serve"`
}

// Backend contains record store connection settings.
type Backend struct {
	// URL is the base URL of the record store.
	URL string `toml:"url"`

	// AnonKey is the anonymous API key used when no session is active.
	AnonKey string `toml:"anon-key"`
}

// Auth contains authentication settings.
type Auth struct {
	// TokenFile is the path of the persisted sign-in session.
	TokenFile string `toml:"token-file"`
}

// Serve contains web server settings.
type Serve struct {
	// Addr is the listen address for the web server.
	Addr string `toml:"addr"`
}

// DefaultServeAddr is used when no listen address is configured.
const DefaultServeAddr = "localhost:8799"

// Load loads configuration from dir and the global config file, then applies
// environment overrides. Returns an empty config if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	localCfg, localMeta, err := loadConfigFile(filepath.Join(dir, "annum.toml"))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, localCfg, globalMeta, localMeta)
	applyEnvOverrides(merged)
	return merged, nil
}

func globalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "annum", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, localCfg *Config, globalMeta, localMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if localCfg == nil {
		localCfg = &Config{}
	}

	merged := Config{}
	merged.Backend.URL = mergeString(localMeta.IsDefined("backend", "url"), localCfg.Backend.URL, globalCfg.Backend.URL)
	merged.Backend.AnonKey = mergeString(localMeta.IsDefined("backend", "anon-key"), localCfg.Backend.AnonKey, globalCfg.Backend.AnonKey)
	merged.Auth.TokenFile = mergeString(localMeta.IsDefined("auth", "token-file"), localCfg.Auth.TokenFile, globalCfg.Auth.TokenFile)
	merged.Serve.Addr = mergeString(localMeta.IsDefined("serve", "addr"), localCfg.Serve.Addr, globalCfg.Serve.Addr)

	return &merged
}

func mergeString(localDefined bool, localValue, globalValue string) string {
	value := globalValue
	if localDefined {
		value = localValue
	}
	return strings.TrimSpace(value)
}

func applyEnvOverrides(cfg *Config) {
	if value := os.Getenv("ANNUM_URL"); value != "" {
		cfg.Backend.URL = value
	}
	if value := os.Getenv("ANNUM_ANON_KEY"); value != "" {
		cfg.Backend.AnonKey = value
	}
	if value := os.Getenv("ANNUM_TOKEN_FILE"); value != "" {
		cfg.Auth.TokenFile = value
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = DefaultServeAddr
	}
}
