// Package config loads service settings from an optional TOML file and the
// process environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Population source kinds.
const (
	SourceRemote   = "remote"
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// PathEnv names the variable that points at a TOML config file.
const PathEnv = "DNAMATCH_CONFIG"

type S3 struct {
	Bucket    string `toml:"bucket"`
	Key       string `toml:"key"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	PathStyle bool   `toml:"path_style"`
}

type Population struct {
	Source      string `toml:"source"`
	URL         string `toml:"url"` // remote source; empty selects the public registry
	File        string `toml:"file"`
	DatabaseURL string `toml:"database_url"`
	SQLitePath  string `toml:"sqlite_path"`
	S3          S3     `toml:"s3"`
	// MaxRecords bounds a snapshot; zero disables the bound.
	MaxRecords int `toml:"max_records"`
}

type Search struct {
	Workers           int     `toml:"workers"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RelativeThreshold float64 `toml:"relative_threshold"`
}

type Config struct {
	Env            string     `toml:"env"`
	ListenAddr     string     `toml:"listen_addr"`
	LogLevel       string     `toml:"log_level"`
	LogFormat      string     `toml:"log_format"`
	MaxUploadBytes int64      `toml:"max_upload_bytes"`
	Population     Population `toml:"population"`
	Search         Search     `toml:"search"`
}

// Default returns the settings used when neither file nor environment say
// otherwise.
func Default() Config {
	return Config{
		Env:            "development",
		ListenAddr:     ":8080",
		LogLevel:       "info",
		LogFormat:      "text",
		MaxUploadBytes: 10 << 20,
		Population: Population{
			Source: SourceRemote,
			S3:     S3{Region: "us-east-1"},
		},
		Search: Search{
			TimeoutSeconds:    60,
			RelativeThreshold: 0.96,
		},
	}
}

// SearchTimeout returns the per-search deadline, zero when disabled.
func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.Search.TimeoutSeconds) * time.Second
}

// Load builds a Config from defaults, the TOML file at path (or $DNAMATCH_CONFIG
// when path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.Population.Source = strings.ToLower(strings.TrimSpace(cfg.Population.Source))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Env = getenv("APP_ENV", c.Env)
	c.ListenAddr = getenv("LISTEN_ADDR", c.ListenAddr)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("LOG_FORMAT", c.LogFormat)

	p := &c.Population
	p.Source = getenv("POPULATION_SOURCE", p.Source)
	p.URL = getenv("POPULATION_URL", p.URL)
	p.File = getenv("POPULATION_FILE", p.File)
	p.DatabaseURL = getenv("DATABASE_URL", p.DatabaseURL)
	p.SQLitePath = getenv("SQLITE_PATH", p.SQLitePath)
	p.S3.Bucket = getenv("S3_BUCKET", p.S3.Bucket)
	p.S3.Key = getenv("S3_KEY", p.S3.Key)
	p.S3.Region = getenv("S3_REGION", p.S3.Region)
	p.S3.Endpoint = getenv("S3_ENDPOINT", p.S3.Endpoint)

	var err error
	if p.S3.PathStyle, err = getenvBool("S3_PATH_STYLE", p.S3.PathStyle); err != nil {
		return err
	}
	if p.MaxRecords, err = getenvInt("MAX_POPULATION", p.MaxRecords); err != nil {
		return err
	}
	if c.Search.Workers, err = getenvInt("SEARCH_WORKERS", c.Search.Workers); err != nil {
		return err
	}
	if c.Search.TimeoutSeconds, err = getenvInt("SEARCH_TIMEOUT_SECONDS", c.Search.TimeoutSeconds); err != nil {
		return err
	}
	if c.Search.RelativeThreshold, err = getenvFloat("RELATIVE_THRESHOLD", c.Search.RelativeThreshold); err != nil {
		return err
	}
	upload, err := getenvInt("MAX_UPLOAD_BYTES", int(c.MaxUploadBytes))
	if err != nil {
		return err
	}
	c.MaxUploadBytes = int64(upload)
	return nil
}

// Validate checks ranges and the settings the selected source needs.
func (c Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr must be set"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format: unsupported value %q", c.LogFormat))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}
	if c.Search.Workers < 0 {
		errs = append(errs, errors.New("search.workers must not be negative"))
	}
	if c.Search.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("search.timeout_seconds must not be negative"))
	}
	if t := c.Search.RelativeThreshold; t <= 0 || t >= 1 {
		errs = append(errs, fmt.Errorf("search.relative_threshold must be in (0, 1), got %v", t))
	}
	if c.Population.MaxRecords < 0 {
		errs = append(errs, errors.New("population.max_records must not be negative"))
	}

	p := c.Population
	switch p.Source {
	case SourceRemote:
		// An empty url selects the public registry.
	case SourceFile:
		if p.File == "" {
			errs = append(errs, errors.New("population.file required for file source"))
		}
	case SourceS3:
		if p.S3.Bucket == "" || p.S3.Key == "" {
			errs = append(errs, errors.New("population.s3.bucket and population.s3.key required for s3 source"))
		}
	case SourcePostgres:
		if p.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL required for postgres source"))
		}
	case SourceSQLite:
		if p.SQLitePath == "" {
			errs = append(errs, errors.New("population.sqlite_path required for sqlite source"))
		}
	default:
		errs = append(errs, fmt.Errorf("population.source: unsupported value %q", p.Source))
	}
	return errors.Join(errs...)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	out, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	out, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	out, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}
