// Package gormlogger adapts the process-wide zerolog logger to gorm's logger
// interface, so database activity shares the application's log pipeline.
package gormlogger

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	gormlog "gorm.io/gorm/logger"
)

// Adapter implements gorm's logger.Interface on top of zerolog.
type Adapter struct {
	// SlowThreshold marks queries logged as slow at warn level.
	SlowThreshold time.Duration
}

// New returns an Adapter with a 200ms slow-query threshold.
func New() *Adapter {
	return &Adapter{SlowThreshold: 200 * time.Millisecond} //nolint:mnd
}

// LogMode is a no-op; log filtering is handled by zerolog's global level.
func (a *Adapter) LogMode(gormlog.LogLevel) gormlog.Interface {
	return a
}

// Info logs at info level.
func (a *Adapter) Info(_ context.Context, msg string, args ...any) {
	log.Info().Msgf(msg, args...)
}

// Warn logs at warn level.
func (a *Adapter) Warn(_ context.Context, msg string, args ...any) {
	log.Warn().Msgf(msg, args...)
}

// Error logs at error level.
func (a *Adapter) Error(_ context.Context, msg string, args ...any) {
	log.Error().Msgf(msg, args...)
}

// Trace logs finished queries: errors at error level, slow queries at warn,
// everything else at trace. Record-not-found is not an error worth logging.
func (a *Adapter) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gormlog.ErrRecordNotFound):
		log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case a.SlowThreshold > 0 && elapsed > a.SlowThreshold:
		log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	default:
		log.Trace().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
