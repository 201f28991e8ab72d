// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/infracouncil/council-portal-service/internal/logging"
)

// flags are the command line flags for the portal service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the portal service.
type environment struct {
	Port         string `env:"PORT"           envDefault:"8080"`
	NatsURL      string `env:"NATS_URL"       envDefault:"nats://localhost:4222"`
	AssetBaseURL string `env:"ASSET_BASE_URL" envDefault:"http://localhost:8080/assets"`
	SMTP         smtpEnvironment
	Otel         otelEnvironment
}

// smtpEnvironment holds the outbound mail configuration. When Host is empty
// the service falls back to the no-op email sender.
type smtpEnvironment struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	From     string `env:"SMTP_FROM"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
}

// otelEnvironment holds the opt-in tracing configuration.
type otelEnvironment struct {
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// parseFlags parses command line flags for the portal service
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

// parseEnv parses environment variables for the portal service
func parseEnv() environment {
	var e environment
	if err := env.Parse(&e); err != nil {
		slog.With(logging.ErrKey, err).Error("error parsing environment variables")
		os.Exit(1)
	}
	return e
}
