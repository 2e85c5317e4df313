package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerURL    string `yaml:"server_url"`
	LogLevel     string `yaml:"log_level"`
	PlayerName   string `yaml:"player_name"`
	GameCode     string `yaml:"game_code"`
	PlayerID     string `yaml:"player_id"`
	SessionToken string `yaml:"session_token"`
	Theme        string `yaml:"theme"`
	SinglePlayer bool   `yaml:"single_player"`

	Poll struct {
		GameMs       int `yaml:"game_ms"`
		LobbyMs      int `yaml:"lobby_ms"`
		WordSelectMs int `yaml:"word_select_ms"`
	} `yaml:"poll"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// loadConfig reads an optional YAML file, then lets environment variables
// override it.
func loadConfig(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.ServerURL = getEnv("GUESSFEUD_SERVER_URL", defaultString(config.ServerURL, "http://localhost:8080"))
	config.LogLevel = getEnv("GUESSFEUD_LOG_LEVEL", defaultString(config.LogLevel, "info"))
	config.PlayerName = getEnv("GUESSFEUD_PLAYER_NAME", config.PlayerName)
	config.GameCode = getEnv("GUESSFEUD_GAME_CODE", config.GameCode)
	config.PlayerID = getEnv("GUESSFEUD_PLAYER_ID", config.PlayerID)
	config.SessionToken = getEnv("GUESSFEUD_SESSION_TOKEN", config.SessionToken)
	config.Theme = getEnv("GUESSFEUD_THEME", config.Theme)

	config.Poll.GameMs = getEnvAsInt("GUESSFEUD_POLL_GAME_MS", defaultInt(config.Poll.GameMs, 2000))
	config.Poll.LobbyMs = getEnvAsInt("GUESSFEUD_POLL_LOBBY_MS", defaultInt(config.Poll.LobbyMs, 5000))
	config.Poll.WordSelectMs = getEnvAsInt("GUESSFEUD_POLL_WORD_SELECT_MS", defaultInt(config.Poll.WordSelectMs, 3000))

	return &config, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func (c *Config) GameInterval() time.Duration {
	return time.Duration(c.Poll.GameMs) * time.Millisecond
}

func (c *Config) LobbyInterval() time.Duration {
	return time.Duration(c.Poll.LobbyMs) * time.Millisecond
}

func (c *Config) WordSelectInterval() time.Duration {
	return time.Duration(c.Poll.WordSelectMs) * time.Millisecond
}
