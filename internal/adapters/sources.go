// Package adapters selects the population source named by the configuration.
package adapters

import (
	"context"
	"fmt"

	"dnamatch/internal/adapters/file"
	pg "dnamatch/internal/adapters/postgres"
	"dnamatch/internal/adapters/remote"
	s3source "dnamatch/internal/adapters/s3"
	"dnamatch/internal/adapters/sqlite"
	"dnamatch/internal/config"
	"dnamatch/internal/ports"
)

// OpenSource builds the configured population source. The returned close
// function releases connections and is never nil.
func OpenSource(ctx context.Context, cfg config.Population) (ports.PopulationSource, func(), error) {
	noop := func() {}
	switch cfg.Source {
	case config.SourceRemote:
		src, err := remote.New(cfg.URL)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	case config.SourceFile:
		src, err := file.New(cfg.File)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	case config.SourceS3:
		src, err := s3source.New(ctx, s3source.Config{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Key:       cfg.S3.Key,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	case config.SourcePostgres:
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("db connect: %w", err)
		}
		return db, db.Close, nil
	case config.SourceSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unsupported population source %q", cfg.Source)
	}
}
