package logging

import (
	"log/slog"
	"time"
)

// Field keys shared across packages.
const (
	FieldSearchID   = "search_id"
	FieldOperation  = "op"
	FieldRecord     = "record"
	FieldSimilarity = "similarity"
	FieldPercentage = "similarity_percentage"
	FieldSource     = "source"
)

type Attr = slog.Attr

func String(key, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}
