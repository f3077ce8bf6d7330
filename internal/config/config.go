package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the service needs. It is built once in main
// and passed by reference into the components that need it, so nothing
// reads the environment on its own after startup.
type Config struct {
	Port             string
	MongoURI         string
	MongoDatabase    string
	LogLevel         string
	OpenAIAPIKey     string
	OpenAIModel      string
	UtteranceTimeout time.Duration
}

// LoadEnv loads a local .env file when present. A missing file is not
// an error: deployed processes get their environment injected directly.
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
}

// Load reads the environment into a Config. Missing required variables
// produce an error so the process can fail before any session is attempted.
func Load() (Config, error) {
	cfg := Config{
		Port:          os.Getenv("PORT"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "guidedVoice"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}

	if cfg.Port == "" {
		return Config{}, fmt.Errorf("environment variable PORT is required but not set")
	}
	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("environment variable MONGODB_URI is required but not set")
	}
	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("environment variable OPENAI_API_KEY is required but not set")
	}

	if raw := os.Getenv("UTTERANCE_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return Config{}, fmt.Errorf("invalid UTTERANCE_TIMEOUT_SECONDS value %q", raw)
		}
		cfg.UtteranceTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
