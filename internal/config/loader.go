package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SMTPConfig carries the outbound mail submission settings. All fields are
// optional; an unconfigured block disables notification delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Config captures environment driven configuration values for the room
// tracker service.
type Config struct {
	HTTPPort     int
	SQLiteDSN    string
	SeedFile     string
	DeleteWindow time.Duration
	SMTP         SMTPConfig
}

// Load parses configuration values from the current process environment.
//
// A .env file in the working directory is folded into the environment first
// when present; real environment variables win over file entries. Optional
// fields fall back to defaults while malformed values are reported together.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:     8080,
		SQLiteDSN:    "file:roomtracker.db",
		DeleteWindow: 5 * time.Minute,
		SMTP:         SMTPConfig{Port: 465},
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SRT_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SRT_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SRT_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if seedFile := strings.TrimSpace(os.Getenv("SRT_SEED_FILE")); seedFile != "" {
		cfg.SeedFile = seedFile
	}

	if windowValue := strings.TrimSpace(os.Getenv("SRT_DELETE_WINDOW")); windowValue != "" {
		window, err := time.ParseDuration(windowValue)
		if err != nil || window <= 0 {
			invalid = append(invalid, "SRT_DELETE_WINDOW")
		} else {
			cfg.DeleteWindow = window
		}
	}

	cfg.SMTP.Host = strings.TrimSpace(os.Getenv("SRT_SMTP_HOST"))
	cfg.SMTP.Username = strings.TrimSpace(os.Getenv("SRT_SMTP_USERNAME"))
	cfg.SMTP.Password = os.Getenv("SRT_SMTP_PASSWORD")
	cfg.SMTP.From = strings.TrimSpace(os.Getenv("SRT_SMTP_FROM"))

	if smtpPortValue := strings.TrimSpace(os.Getenv("SRT_SMTP_PORT")); smtpPortValue != "" {
		port, err := strconv.Atoi(smtpPortValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SRT_SMTP_PORT")
		} else {
			cfg.SMTP.Port = port
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
