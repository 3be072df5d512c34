// Package config loads settings for the client and the server from the
// environment and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"tetrisengine/tetris"

	"github.com/joho/godotenv"
)

type Config struct {
	// Client
	Address string
	Name    string
	NoGhost bool

	// Server
	Listen string

	// Rules
	Kicks string

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads files (.env when none are given) if they exist, then the
// environment.
func Load(files ...string) *Config {
	// Load .env file if it exists
	godotenv.Load(files...) //nolint: errcheck

	return &Config{
		Address: getEnv("TETRIS_ADDR", "localhost:9000"),
		Name:    getEnv("TETRIS_NAME", os.Getenv("USER")),
		NoGhost: getEnvBool("TETRIS_NO_GHOST", false),

		Listen: getEnv("TETRIS_LISTEN", ":9000"),

		Kicks: getEnv("TETRIS_KICKS", "simple"),

		LogLevel: getEnv("TETRIS_LOG_LEVEL", "info"),
		LogFile:  getEnv("TETRIS_LOG_FILE", "tetris.log"),
	}
}

// KickTable returns the wall kick table named by kicks.
func KickTable(kicks string) (tetris.KickTable, error) {
	switch strings.ToLower(kicks) {
	case "", "simple":
		return tetris.SimpleKicks, nil
	case "srs":
		return tetris.SRSKicks, nil
	}
	return nil, fmt.Errorf("unknown kick table %q, want simple or srs", kicks)
}

// SessionOptions turns the rule settings into options for new games.
func (c *Config) SessionOptions() ([]tetris.Option, error) {
	kicks, err := KickTable(c.Kicks)
	if err != nil {
		return nil, err
	}
	return []tetris.Option{tetris.WithKicks(kicks)}, nil
}

// Level parses the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level: %w", err)
	}
	return l, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
