package logger

import (
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

type gormWriter struct {
	log   zerolog.Logger
	level zerolog.Level
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.WithLevel(w.level).Msgf(format, args...)
}

// Gorm bridges GORM's logger onto l. At debug every statement is traced,
// otherwise only slow queries and errors are reported, at warn.
func Gorm(l zerolog.Logger) gormlogger.Interface {
	w := gormWriter{log: l.With().Str("component", "gorm").Logger(), level: zerolog.WarnLevel}
	level := gormlogger.Warn
	if l.GetLevel() <= zerolog.DebugLevel {
		w.level = zerolog.DebugLevel
		level = gormlogger.Info
	}
	return gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
