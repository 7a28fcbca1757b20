package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	JWTSecret    string

	// Mail transport (welcome notifications)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// Optional Kafka relay for lifecycle events. Empty brokers disable it.
	KafkaBrokers []string
	KafkaTopic   string

	// Logging
	LogFile string // empty means stderr only

	// Activity log retention
	RetentionDays int
	PruneSchedule string // standard cron expression
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, err
	}

	retention, err := strconv.Atoi(getEnv("ACTIVITY_RETENTION_DAYS", "90"))
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./inkpost.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      smtpPort,
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		MailFrom:      getEnv("MAIL_FROM", "from@example.com"),
		KafkaBrokers:  brokers,
		KafkaTopic:    getEnv("KAFKA_TOPIC", "inkpost-events"),
		LogFile:       getEnv("LOG_FILE", ""),
		RetentionDays: retention,
		PruneSchedule: getEnv("PRUNE_SCHEDULE", "0 3 * * *"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
