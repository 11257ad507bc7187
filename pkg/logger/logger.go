// Package logger configures the process-wide zerolog logger.
//
// Call Init once in main with the configured level and environment; every
// other package receives a zerolog.Logger by injection or calls Get.
package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu       sync.Mutex
	instance = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init builds the singleton logger. JSON output always; in the development
// environment it is wrapped in zerolog's console writer for readability.
// Subsequent calls reconfigure the instance, which keeps tests simple.
func Init(level, env string) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.New(os.Stdout)
	if env == "development" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}

	instance = out.Level(lvl).With().Timestamp().Logger()
	return instance
}

// Get returns the current singleton logger. Before Init it is a stderr
// fallback, so packages logging during early startup never panic.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return instance
}
