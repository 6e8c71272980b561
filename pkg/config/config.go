package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GitHub   GitHubConfig
	Booking  BookingConfig
	CRM      CRMConfig
	Schedule ScheduleConfig
	Workers  WorkersConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path string
}

type GitHubConfig struct {
	Token         string
	WebhookSecret string
	RateLimit     int
}

type BookingConfig struct {
	ServiceURL string
}

type CRMConfig struct {
	Endpoint string
	APIKey   string
}

type ScheduleConfig struct {
	BusinessStartHour int
	BusinessEndHour   int
	WindowMinutes     int
	MinNoticeMinutes  int
}

type WorkersConfig struct {
	SyncWorkers  int
	StatsWorkers int
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./teampulse.db"),
		},
		GitHub: GitHubConfig{
			Token:         getEnv("GITHUB_TOKEN", ""),
			WebhookSecret: getEnv("GITHUB_WEBHOOK_SECRET", ""),
			RateLimit:     getEnvAsInt("GITHUB_RATE_LIMIT", 5),
		},
		Booking: BookingConfig{
			ServiceURL: getEnv("BOOKING_SERVICE_URL", ""),
		},
		CRM: CRMConfig{
			Endpoint: getEnv("CRM_ENDPOINT", ""),
			APIKey:   getEnv("CRM_API_KEY", ""),
		},
		Schedule: ScheduleConfig{
			BusinessStartHour: getEnvAsInt("BUSINESS_START_HOUR", 9),
			BusinessEndHour:   getEnvAsInt("BUSINESS_END_HOUR", 17),
			WindowMinutes:     getEnvAsInt("CALL_WINDOW_MINUTES", 30),
			MinNoticeMinutes:  getEnvAsInt("MIN_NOTICE_MINUTES", 60),
		},
		Workers: WorkersConfig{
			SyncWorkers:  getEnvAsInt("SYNC_WORKERS", 2),
			StatsWorkers: getEnvAsInt("STATS_WORKERS", 1),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
