package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ConfigError reports required settings that are absent. It is raised
// before any network call is attempted.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

type Config struct {
	APIKey     string
	PlaylistID string

	DatasetPath string
	Port        string

	RateCalls  int
	RatePeriod time.Duration
}

// Load reads collector configuration from the environment, with an
// optional .env file. The API key and playlist id are mandatory.
func Load() (Config, error) {
	cfg := load()

	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	if cfg.PlaylistID == "" {
		missing = append(missing, "PLAYLIST_ID")
	}
	if len(missing) > 0 {
		return Config{}, &ConfigError{Missing: missing}
	}

	return cfg, nil
}

// LoadDashboard reads dashboard configuration. The dashboard only needs
// the dataset path and a port, never the API credential.
func LoadDashboard() Config {
	return load()
}

func load() Config {
	_ = godotenv.Load()

	return Config{
		APIKey:      getParam("YOUTUBE_API_KEY", ""),
		PlaylistID:  getParam("PLAYLIST_ID", ""),
		DatasetPath: getParam("DATASET_PATH", "f1_highlights.csv"),
		Port:        getParam("PORT", "8050"),
		// ~10,000 calls/day quota, kept well under with 7 calls/minute.
		RateCalls:  7,
		RatePeriod: time.Minute,
	}
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}
	return def
}
