/*
Package config loads server settings from the environment.

SOURCES (later wins):
  1. .env file in the working directory, if present (godotenv)
  2. Process environment
  3. Command-line flags in cmd/server

KEYS:
  PORT               HTTP port (default 8080)
  DB_PATH            SQLite path (default hr.db, ":memory:" allowed)
  LOG_LEVEL          debug | info | warn | error (default info)
  LOG_FORMAT         text | json (default text)
  CORS_ORIGINS       comma-separated allowed origins
  DIGEST_INTERVAL    upcoming-leave digest period, Go duration (default 24h, 0 disables)
  DIGEST_RECIPIENTS  comma-separated email addresses
  SMTP_HOST          empty selects the logging mailer
  SMTP_PORT          default 587
  SMTP_USER, SMTP_PASSWORD, SMTP_FROM
*/
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port        int
	DBPath      string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	DigestInterval   time.Duration
	DigestRecipients []string

	SMTP SMTP
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether a relay is configured.
func (s SMTP) Enabled() bool {
	return s.Host != ""
}

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// Load reads .env (if any) and the environment. Malformed numbers and
// durations fall back to their defaults with a warning.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using system environment variables")
	}

	return &Config{
		Port:        getEnvInt("PORT", 8080),
		DBPath:      getEnv("DB_PATH", "hr.db"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		CORSOrigins: getEnvList("CORS_ORIGINS", defaultOrigins),

		DigestInterval:   getEnvDuration("DIGEST_INTERVAL", 24*time.Hour),
		DigestRecipients: getEnvList("DIGEST_RECIPIENTS", nil),

		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "hr@localhost"),
		},
	}
}

// ConfigureLogging applies level and format to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(os.Stdout)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": value}).Warn("Invalid integer, using default")
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": value}).Warn("Invalid duration, using default")
		return defaultValue
	}
	return d
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
