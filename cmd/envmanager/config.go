package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// Config holds the defaults read from the process environment.
// Command line flags take precedence.
type Config struct {
	File   string `env:"ENVMANAGER_FILE" envDefault:".env"`
	Cipher string `env:"ENVMANAGER_CIPHER" envDefault:"AES-256-CBC"`
	Debug  bool   `env:"ENVMANAGER_DEBUG" envDefault:"false"`
}

func loadConfig(environ map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// loggerFactory builds the logger handed to the manager.
type loggerFactory func(debug bool) (*zap.Logger, error)

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
