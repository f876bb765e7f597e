package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string `yaml:"port"`
	GinMode       string `yaml:"gin_mode"`
	DBDriver      string `yaml:"db_driver"`
	DBHost        string `yaml:"db_host"`
	DBPort        string `yaml:"db_port"`
	DBUser        string `yaml:"db_user"`
	DBPassword    string `yaml:"db_password"`
	DBName        string `yaml:"db_name"`
	DBSSLMode     string `yaml:"db_sslmode"`
	DBPath        string `yaml:"db_path"`
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	SessionSecret string `yaml:"session_secret"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	Timezone      string `yaml:"timezone"`
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
}

// Load builds the configuration from, in increasing precedence, built-in
// defaults, the YAML file named by CONFIG_FILE, a .env file and the process
// environment.
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win
	_ = godotenv.Load()

	file := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	return &Config{
		Port:          getEnv("PORT", file.Port, "8080"),
		GinMode:       getEnv("GIN_MODE", file.GinMode, "debug"),
		DBDriver:      getEnv("DB_DRIVER", file.DBDriver, "postgres"),
		DBHost:        getEnv("DB_HOST", file.DBHost, "localhost"),
		DBPort:        getEnv("DB_PORT", file.DBPort, "5432"),
		DBUser:        getEnv("DB_USER", file.DBUser, "studyuser"),
		DBPassword:    getEnv("DB_PASSWORD", file.DBPassword, "studypassword"),
		DBName:        getEnv("DB_NAME", file.DBName, "study_tracker"),
		DBSSLMode:     getEnv("DB_SSLMODE", file.DBSSLMode, "disable"),
		DBPath:        getEnv("DB_PATH", file.DBPath, "study_tracker.db"),
		RedisHost:     getEnv("REDIS_HOST", file.RedisHost, ""),
		RedisPort:     getEnv("REDIS_PORT", file.RedisPort, "6379"),
		SessionSecret: getEnv("SESSION_SECRET", file.SessionSecret, "default-secret-key-change-me"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", file.OpenAIAPIKey, ""),
		Timezone:      getEnv("TIMEZONE", file.Timezone, "Local"),
		LogLevel:      getEnv("LOG_LEVEL", file.LogLevel, "info"),
		LogFile:       getEnv("LOG_FILE", file.LogFile, ""),
	}, nil
}

// LoadFile reads a YAML configuration file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

func getEnv(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}
