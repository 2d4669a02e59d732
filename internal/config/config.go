package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	OpenRouter OpenRouterConfig
	Weather    WeatherConfig
	Topics     TopicConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type OpenRouterConfig struct {
	BaseURL      string
	APIKey       string
	DefaultModel string
}

type WeatherConfig struct {
	APIKey string
}

type TopicConfig struct {
	TurnCompleted string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:      getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			APIKey:       getEnv("OPENROUTER_API_KEY", ""),
			DefaultModel: getEnv("OPENROUTER_DEFAULT_MODEL", "openai/gpt-4.1-mini"),
		},
		Weather: WeatherConfig{
			APIKey: getEnv("OPENWEATHERMAP_API_KEY", ""),
		},
		Topics: TopicConfig{
			TurnCompleted: getEnv("TURN_COMPLETED_TOPIC_NAME", "CHAT_TURN_COMPLETED"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
