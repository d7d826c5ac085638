package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LoadedFiles []string        `yaml:"-"` // Track all files loaded for this config
	Include     []string        `yaml:"include"`
	Debug       bool            `yaml:"debug"`
	MaxVTY      int             `yaml:"maxVTY"`
	HotReload   bool            `yaml:"hotReload"`
	Device      DeviceConfig    `yaml:"device"`
	Auth        AuthConfig      `yaml:"auth"`
	Loggers     []LoggerConfig  `yaml:"loggers"`
	Listeners   ListenersConfig `yaml:"listeners"`
}

// DeviceConfig models the emulated device's identity and terminal defaults.
type DeviceConfig struct {
	Hostname     string `yaml:"hostname"`
	ScreenLength int    `yaml:"screenLength"`
}

// AuthConfig is the fixed credential pair checked at login, alongside any
// AAA local-users provisioned at runtime.
type AuthConfig struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	MaxAttempts int    `yaml:"maxAttempts"`
}

type LoggerConfig struct {
	Stdout     bool   `yaml:"stdout,omitempty"`
	File       string `yaml:"file,omitempty"`
	Level      string `yaml:"level"`
	Source     bool   `yaml:"source"`
	HideTime   bool   `yaml:"hideTime,omitempty"`
	TimeFormat string `yaml:"timeFormat,omitempty"`
}

type ListenersConfig struct {
	Telnet TelnetConfig `yaml:"telnet"`
	SSH    SSHConfig    `yaml:"ssh"`
}

type TelnetConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port"`
	IdleTimeout int  `yaml:"idleTimeout"` // seconds
}

type SSHConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Port        int    `yaml:"port"`
	IdleTimeout int    `yaml:"idleTimeout"` // seconds
	KeyFile     string `yaml:"keyFile"`
}

const (
	DefaultMaxVTY      = 10
	DefaultIdleTimeout = 300
	DefaultMaxAttempts = 3
	DefaultUsername    = "root123"
	DefaultPassword    = "Root@123"
)

func Load(filename string) (*Config, error) {
	cfg := &Config{
		LoadedFiles: []string{},
	}

	// Keep track of processed files to avoid infinite loops
	processed := make(map[string]bool)

	if err := loadRecursive(filename, cfg, processed); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MaxVTY <= 0 {
		c.MaxVTY = DefaultMaxVTY
	}
	if c.Device.Hostname == "" {
		c.Device.Hostname = "Huawei"
	}
	if c.Device.ScreenLength <= 0 {
		c.Device.ScreenLength = 24
	}
	if c.Auth.Username == "" {
		c.Auth.Username = DefaultUsername
	}
	if c.Auth.Password == "" {
		c.Auth.Password = DefaultPassword
	}
	if c.Auth.MaxAttempts <= 0 {
		c.Auth.MaxAttempts = DefaultMaxAttempts
	}
	if c.Listeners.Telnet.IdleTimeout <= 0 {
		c.Listeners.Telnet.IdleTimeout = DefaultIdleTimeout
	}
	if c.Listeners.SSH.IdleTimeout <= 0 {
		c.Listeners.SSH.IdleTimeout = DefaultIdleTimeout
	}
}

func loadRecursive(filename string, cfg *Config, processed map[string]bool) error {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	if processed[absPath] {
		return nil // Already processed
	}
	processed[absPath] = true
	cfg.LoadedFiles = append(cfg.LoadedFiles, absPath)

	data, err := os.ReadFile(absPath)
	if err != nil {
		return err
	}

	// Expand environment variables in the YAML content
	expandedData := []byte(os.ExpandEnv(string(data)))

	// Unmarshal into a temporary struct to load includes first
	var tempCfg struct {
		Include []string `yaml:"include"`
	}
	if err := yaml.Unmarshal(expandedData, &tempCfg); err != nil {
		return err
	}

	baseDir := filepath.Dir(absPath)
	for _, includePath := range tempCfg.Include {
		// Resolve relative paths relative to the current config file
		fullPath := includePath
		if !filepath.IsAbs(includePath) {
			fullPath = filepath.Join(baseDir, includePath)
		}

		if err := loadRecursive(fullPath, cfg, processed); err != nil {
			return fmt.Errorf("failed to load included config %s: %w", fullPath, err)
		}
	}

	// Now apply the current file's configuration over the accumulated config
	if err := yaml.Unmarshal(expandedData, cfg); err != nil {
		return err
	}

	return nil
}
