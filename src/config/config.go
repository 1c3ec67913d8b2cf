// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BielosX/wombat/pokedex/src/pokeapi"
	"github.com/BielosX/wombat/pokedex/src/pokedex"
)

type Config struct {
	BaseUrl      string
	ColorsUrl    string
	Addr         string
	DisplayFloor time.Duration
	LogFormat    string
	Region       string
	BucketName   string
	Handler      string
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func Load() (*Config, error) {
	cfg := &Config{
		BaseUrl:      getEnv("POKEAPI_BASE_URL", pokeapi.DefaultBaseUrl),
		ColorsUrl:    getEnv("POKEDEX_COLORS_URL", pokeapi.DefaultColorsUrl),
		Addr:         getEnv("POKEDEX_ADDR", ":8080"),
		DisplayFloor: pokedex.DefaultDisplayFloor,
		LogFormat:    getEnv("POKEDEX_LOG_FORMAT", "console"),
		Region:       os.Getenv("AWS_REGION"),
		BucketName:   os.Getenv("BUCKET_NAME"),
		Handler:      os.Getenv("_HANDLER"),
	}
	if floor := os.Getenv("POKEDEX_DISPLAY_FLOOR"); floor != "" {
		d, err := time.ParseDuration(floor)
		if err != nil {
			return nil, fmt.Errorf("invalid POKEDEX_DISPLAY_FLOOR %q: %w", floor, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid POKEDEX_DISPLAY_FLOOR %q: must not be negative", floor)
		}
		cfg.DisplayFloor = d
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("invalid POKEDEX_LOG_FORMAT %q: expected console or json", cfg.LogFormat)
	}
	return cfg, nil
}
