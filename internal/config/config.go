// Package config loads application configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MailConfig holds the SMTP relay settings for the contact form.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// ToAddress is the fixed operator address contact messages are relayed to.
	ToAddress string
	Timeout   time.Duration
}

// Enabled reports whether enough of the relay is configured to send mail.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Username != "" && m.ToAddress != ""
}

// Addr returns the host:port dial address of the relay.
func (m MailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// Config holds the application configuration.
type Config struct {
	Port        string
	DBPath      string
	TemplateDir string
	LogLevel    string
	LogFormat   string
	Mail        MailConfig
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	// Ignore a missing .env file, the environment may be set directly.
	_ = godotenv.Load()

	var errs []string

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBPath:      getEnv("DB_PATH", "charitychick.db"),
		TemplateDir: getEnv("TEMPLATE_DIR", "web/templates"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
		Mail: MailConfig{
			Host:      getEnv("SMTP_HOST", ""),
			Port:      getEnvInt("SMTP_PORT", 587, &errs),
			Username:  getEnv("SMTP_USER", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			ToAddress: getEnv("CONTACT_EMAIL", ""),
			Timeout:   getEnvDuration("SMTP_TIMEOUT", 30*time.Second, &errs),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// getEnv gets the value of an environment variable or returns a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable parsed as an int, collecting a parse
// failure into errs instead of failing immediately.
func getEnvInt(key string, defaultValue int, errs *[]string) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s must be an integer, got %q", key, value))
		return defaultValue
	}
	return n
}

// getEnvDuration gets an environment variable parsed as a time.Duration.
func getEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s must be a duration like 30s, got %q", key, value))
		return defaultValue
	}
	return d
}
