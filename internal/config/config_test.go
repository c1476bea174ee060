package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	PathEnv, "APP_ENV", "LISTEN_ADDR", "LOG_LEVEL", "LOG_FORMAT",
	"POPULATION_SOURCE", "POPULATION_URL", "POPULATION_FILE", "DATABASE_URL", "SQLITE_PATH",
	"S3_BUCKET", "S3_KEY", "S3_REGION", "S3_ENDPOINT", "S3_PATH_STYLE",
	"MAX_POPULATION", "SEARCH_WORKERS", "SEARCH_TIMEOUT_SECONDS", "RELATIVE_THRESHOLD", "MAX_UPLOAD_BYTES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Population.Source != SourceRemote || cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Population.URL != "" {
		t.Fatalf("remote url should default to empty, got %q", cfg.Population.URL)
	}
	if cfg.Search.RelativeThreshold != 0.96 || cfg.SearchTimeout() != time.Minute {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "dnamatch.toml")
	doc := `
listen_addr = ":9000"
log_format = "json"

[population]
source = "SQLite"
sqlite_path = "/var/lib/dnamatch/population.db"
max_records = 5000

[search]
workers = 4
relative_threshold = 0.9
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SEARCH_WORKERS", "8")
	t.Setenv("S3_PATH_STYLE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ListenAddr != ":9000" || cfg.LogFormat != "json" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Population.Source != SourceSQLite || cfg.Population.MaxRecords != 5000 {
		t.Fatalf("unexpected population: %+v", cfg.Population)
	}
	if cfg.Search.Workers != 8 || cfg.Search.RelativeThreshold != 0.9 {
		t.Fatalf("env should override file: %+v", cfg.Search)
	}
	if !cfg.Population.S3.PathStyle {
		t.Fatal("expected S3 path style from env")
	}
}

func TestLoadPathFromEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "c.toml")
	if err := os.WriteFile(path, []byte("env = \"production\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(PathEnv, path)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad int", map[string]string{"SEARCH_WORKERS": "many"}, "SEARCH_WORKERS"},
		{"threshold range", map[string]string{"RELATIVE_THRESHOLD": "1.5"}, "relative_threshold"},
		{"unknown source", map[string]string{"POPULATION_SOURCE": "ftp"}, "population.source"},
		{"postgres without url", map[string]string{"POPULATION_SOURCE": "postgres"}, "DATABASE_URL"},
		{"s3 without key", map[string]string{"POPULATION_SOURCE": "s3", "S3_BUCKET": "b"}, "population.s3"},
		{"log format", map[string]string{"LOG_FORMAT": "xml"}, "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
