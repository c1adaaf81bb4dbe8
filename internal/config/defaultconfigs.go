package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

var DefaultConfig Config

func init() {
	DefaultConfig = Config{
		Server: ServerConfig{
			Address:        ":3000",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Game: GameConfig{
			TimeControlSeconds: 600,
			ComputerDelayMs:    1500,
		},
		Storage: StorageConfig{
			DataDir:      filepath.Join(xdg.DataHome, "grandmaster"),
			HistoryLimit: 10,
		},
	}
}
