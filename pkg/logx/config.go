package logx

import (
	"io"
	"os"
	"strings"
	"time"
)

// Format represents the output format
type Format string

const (
	// FormatConsole outputs colored console logs (default)
	FormatConsole Format = "console"
	// FormatJSON outputs one JSON object per line
	FormatJSON Format = "json"
)

// Config holds the logger configuration
type Config struct {
	Level        Level
	Format       Format
	EnableColors bool
	EnableCaller bool
	TimeFormat   string
	Output       io.Writer
	// RedactKeys are field names (lower case) whose values are masked.
	RedactKeys []string
}

// DefaultRedactKeys covers credentials that flow through the account service.
var DefaultRedactKeys = []string{"password", "old_password", "new_password", "token", "refresh_token", "access_token", "code", "sign", "secret"}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Level:        LevelInfo,
		Format:       FormatConsole,
		EnableColors: true,
		TimeFormat:   time.RFC3339,
		Output:       os.Stdout,
		RedactKeys:   DefaultRedactKeys,
	}
}

// LoadFromEnv loads configuration from LOG_LEVEL, LOG_FORMAT, LOG_COLOR,
// LOG_CALLER and LOG_TIME_FORMAT.
func LoadFromEnv() *Config {
	config := DefaultConfig()

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Level = ParseLevel(level)
	}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		config.Format = FormatJSON
	}
	if color := os.Getenv("LOG_COLOR"); color != "" {
		config.EnableColors = truthy(color)
	}
	if caller := os.Getenv("LOG_CALLER"); caller != "" {
		config.EnableCaller = truthy(caller)
	}
	switch tf := os.Getenv("LOG_TIME_FORMAT"); strings.ToUpper(tf) {
	case "":
	case "RFC3339NANO":
		config.TimeFormat = time.RFC3339Nano
	case "UNIX":
		config.TimeFormat = "unix"
	case "UNIXMILLI":
		config.TimeFormat = "unixmilli"
	default:
		config.TimeFormat = tf
	}

	if keys := os.Getenv("LOG_REDACT_KEYS"); keys != "" {
		config.RedactKeys = nil
		for _, k := range strings.Split(keys, ",") {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				config.RedactKeys = append(config.RedactKeys, k)
			}
		}
	}

	return config
}

func truthy(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}
