package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofiber/fiber/v2/log"
)

var (
	cfgFile = "grandmaster/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ServerConfig struct {
	Address        string   `json:"address"`
	AllowedOrigins []string `json:"allowed_origins"`
}

type GameConfig struct {
	TimeControlSeconds int `json:"time_control_seconds"`
	ComputerDelayMs    int `json:"computer_delay_ms"`
}

type StorageConfig struct {
	DataDir      string `json:"data_dir"`
	HistoryLimit int    `json:"history_limit"`
	// InMemory keeps history only for the lifetime of the process.
	InMemory bool `json:"in_memory"`
}

type Config struct {
	Server  ServerConfig  `json:"server"`
	Game    GameConfig    `json:"game"`
	Storage StorageConfig `json:"storage"`
}

// InitConfig loads the config file found in the XDG config directories over
// the defaults. When no file exists yet the defaults are written to the user's
// config directory so they can be edited for the next start.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		return Load(absPath)
	}

	config, err := Load("")
	if err != nil {
		return nil, err
	}
	if err := config.Save(); err != nil {
		log.Warnf("could not write default config: %v", err)
	}
	return config, nil
}

// Load reads the config at path over the defaults and validates the result.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig
	config.Server.AllowedOrigins = append([]string(nil), DefaultConfig.Server.AllowedOrigins...)

	if path != "" {
		if err := readCfgFile(path, &config); err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return &InvalidConfig{"server address must not be empty"}
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return &InvalidConfig{"at least one allowed origin is required"}
	}
	if c.Game.TimeControlSeconds < 0 {
		return &InvalidConfig{"time control must not be negative"}
	}
	if c.Game.ComputerDelayMs < 0 {
		return &InvalidConfig{"computer delay must not be negative"}
	}
	if c.Storage.HistoryLimit < 1 {
		return &InvalidConfig{"history limit must be at least 1"}
	}
	if !c.Storage.InMemory && c.Storage.DataDir == "" {
		return &InvalidConfig{"data dir is required unless storage is in memory"}
	}
	return nil
}

func (c *Config) TimeControl() time.Duration {
	return time.Duration(c.Game.TimeControlSeconds) * time.Second
}

func (c *Config) ComputerDelay() time.Duration {
	return time.Duration(c.Game.ComputerDelayMs) * time.Millisecond
}

// OriginList joins the allowed origins the way the CORS middleware expects them.
func (c *Config) OriginList() string {
	return strings.Join(c.Server.AllowedOrigins, ", ")
}

// DatabaseDir returns the badger directory, creating it if needed.
func (c *Config) DatabaseDir() (string, error) {
	dir := filepath.Join(c.Storage.DataDir, "db")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create database dir: %w", err)
	}
	return dir, nil
}

// Save writes the config to the user's XDG config directory.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm os.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read config %s: %w", filePath, err)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("parse %s: %v", filePath, err)}
	}
	return nil
}
