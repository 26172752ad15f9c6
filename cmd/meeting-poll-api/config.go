// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/utils"
)

// flags are the command line flags for the meeting poll service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the meeting poll service.
type environment struct {
	Port               string
	NatsURL            string
	NatsTimeout        time.Duration
	NatsMaxReconnect   int
	NatsReconnectWait  time.Duration
	SkipEtagValidation bool
	LFXEnvironment     string
	LFXAppOrigin       string
	DefaultTimezone    string
	CORSAllowedOrigins []string
	AvailabilityLimit  float64
	AvailabilityBurst  int
	JWKSURL            string
	JWTAudience        string
	MockLocalPrincipal string
}

// parseFlags parses command line flags for the meeting poll service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// loadDotEnv loads a .env file from the working directory when one exists.
// Variables already set in the process environment win.
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.With(logging.ErrKey, err).Warn("error loading .env file")
	}
}

func envString(key, fallback string) string {
	return utils.CoalesceString(os.Getenv(key), fallback)
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		slog.With(logging.ErrKey, err, "key", key, "value", raw).Warn("invalid integer environment variable, using default")
		return fallback
	}
	return value
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		slog.With(logging.ErrKey, err, "key", key, "value", raw).Warn("invalid number environment variable, using default")
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		slog.With(logging.ErrKey, err, "key", key, "value", raw).Warn("invalid duration environment variable, using default")
		return fallback
	}
	return value
}

// parseLFXEnvironment maps the accepted spellings of LFX_ENVIRONMENT onto dev, staging or prod.
func parseLFXEnvironment(raw string) string {
	switch raw {
	case "dev", "development":
		return "dev"
	case "staging", "stg", "stage":
		return "staging"
	default:
		return "prod"
	}
}

// parseOrigins splits a comma separated origin list, dropping blanks.
func parseOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// parseEnv parses environment variables for the meeting poll service
func parseEnv() environment {
	loadDotEnv()

	defaultTimezone := os.Getenv("DEFAULT_TIMEZONE")
	if defaultTimezone != "" {
		if _, err := time.LoadLocation(defaultTimezone); err != nil {
			slog.With(logging.ErrKey, err, "timezone", defaultTimezone).Error("invalid DEFAULT_TIMEZONE provided, using UTC")
			defaultTimezone = ""
		}
	}

	return environment{
		Port:               envString("PORT", "8080"),
		NatsURL:            envString("NATS_URL", "nats://localhost:4222"),
		NatsTimeout:        envDuration("NATS_TIMEOUT", 10*time.Second),
		NatsMaxReconnect:   envInt("NATS_MAX_RECONNECT", 3),
		NatsReconnectWait:  envDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		SkipEtagValidation: os.Getenv("SKIP_ETAG_VALIDATION") == "true",
		LFXEnvironment:     parseLFXEnvironment(os.Getenv("LFX_ENVIRONMENT")),
		LFXAppOrigin:       os.Getenv("LFX_APP_ORIGIN"),
		DefaultTimezone:    defaultTimezone,
		CORSAllowedOrigins: parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AvailabilityLimit:  envFloat("AVAILABILITY_RATE_LIMIT", 1),
		AvailabilityBurst:  envInt("AVAILABILITY_RATE_BURST", 10),
		JWKSURL:            os.Getenv("JWKS_URL"),
		JWTAudience:        os.Getenv("JWT_AUDIENCE"),
		MockLocalPrincipal: os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"),
	}
}
