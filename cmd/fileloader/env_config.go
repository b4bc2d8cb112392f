package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string        // FILELOADER_CONFIG: manifest used when no --config is given
	Timeout    time.Duration // FILELOADER_TIMEOUT: per-batch deadline
	Workers    int           // FILELOADER_WORKERS: concurrent batches
	LogLevel   string        // FILELOADER_LOG_LEVEL
	LogFormat  string        // FILELOADER_LOG_FORMAT
}

// knownEnvVars lists valid FILELOADER_* environment variables.
var knownEnvVars = map[string]bool{
	"FILELOADER_CONFIG":     true,
	"FILELOADER_TIMEOUT":    true,
	"FILELOADER_WORKERS":    true,
	"FILELOADER_LOG_LEVEL":  true,
	"FILELOADER_LOG_FORMAT": true,
}

// loadEnvConfig reads FILELOADER_* variables. Malformed numbers and
// durations are ignored so the next precedence level applies.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("FILELOADER_CONFIG"),
		LogLevel:   os.Getenv("FILELOADER_LOG_LEVEL"),
		LogFormat:  os.Getenv("FILELOADER_LOG_FORMAT"),
	}

	if timeout := os.Getenv("FILELOADER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("FILELOADER_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars reports unrecognized FILELOADER_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "FILELOADER_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}
