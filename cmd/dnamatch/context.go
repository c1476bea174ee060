package main

import (
	"context"
	"log/slog"
	"os"

	"dnamatch/internal/app"
	"dnamatch/internal/config"
	"dnamatch/internal/logging"
)

type globalOptions struct {
	configPath string
	json       bool
	logLevel   string
}

// commandContext loads configuration and services on first use so commands
// that need neither stay cheap.
type commandContext struct {
	opts   *globalOptions
	cfg    *config.Config
	logger *slog.Logger
}

func newCommandContext(opts *globalOptions) *commandContext {
	return &commandContext{opts: opts}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.opts.configPath)
	if err != nil {
		return nil, err
	}
	if c.opts.logLevel != "" {
		cfg.LogLevel = c.opts.logLevel
	}
	c.cfg = &cfg
	return c.cfg, nil
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}

func (c *commandContext) openApp(ctx context.Context) (*app.App, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, *cfg, logger, nil)
}
