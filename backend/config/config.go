package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort       string
	BackendURL       string
	UpstreamTimeout  time.Duration // 0 disables the client timeout
	AllowOrigins     string
	LogFormat        string // text, json
	LogColors        bool
	SessionRetention time.Duration
	SessionIdle      time.Duration // 0 keeps sessions until unmounted
}

// LoadConfig reads the optional env files and then the process environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	timeout, err := getDuration("UPSTREAM_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	retention, err := getDuration("SESSION_RETENTION", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	idle, err := getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	colors, err := strconv.ParseBool(getEnv("LOG_COLORS", "false"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		BackendURL:       getEnv("BACKEND_URL", "http://localhost:8000"),
		UpstreamTimeout:  timeout,
		AllowOrigins:     getEnv("ALLOW_ORIGINS", "*"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		LogColors:        colors,
		SessionRetention: retention,
		SessionIdle:      idle,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(value)
}
