// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogOptions configures the command logger
type LogOptions struct {
	Level  string
	Format string // "console" or "json"
	Writer io.Writer
}

// LogOptionsFromEnv reads LOG_LEVEL and LOG_FORMAT
func LogOptionsFromEnv() LogOptions {
	opts := LogOptions{Level: "info", Format: "console"}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		opts.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		opts.Format = strings.ToLower(v)
	}
	return opts
}

// NewLogger builds a zerolog logger from opts, writing to stderr by default
func NewLogger(opts LogOptions) zerolog.Logger {
	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}
	if opts.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(parseLevel(opts.Level)).With().Timestamp().Logger()
}

// parseLevel falls back to info for anything it does not know
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
