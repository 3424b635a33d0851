package logger

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// gormWriter adapts slog to the Printf-style writer gorm's logger expects.
type gormWriter struct {
	log *slog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Info(strings.TrimSpace(fmt.Sprintf(format, args...)), slog.String("component", "gorm"))
}

// NewGormLogger returns a gorm logger that writes through log. Only slow
// queries and errors are reported unless verbose is set.
func NewGormLogger(log *slog.Logger, verbose bool) gormlogger.Interface {
	logLevel := gormlogger.Warn
	if verbose {
		logLevel = gormlogger.Info
	}
	return gormlogger.New(gormWriter{log: log}, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
