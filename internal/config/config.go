// Package config loads runtime settings from the environment. A .env file, if
// present, is loaded by main before this runs.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
)

type Config struct {
	MongoURI      string
	MongoDatabase string
	Port          string
	JWTSecret     string
	TokenTTL      time.Duration
}

// Load reads the environment once at startup. The signing secret is required;
// everything else has a sensible default.
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: os.Getenv("MONGO_DATABASE"),
		Port:          os.Getenv("API_PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      24 * time.Hour,
	}
	if cfg.JWTSecret == "" {
		return nil, apperr.ErrMissingSecret
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017"
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "implant_passport"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL %q: %w", ttl, err)
		}
		cfg.TokenTTL = d
	}
	return cfg, nil
}
