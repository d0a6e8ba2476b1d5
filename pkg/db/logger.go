package db

import (
	"gorm.io/gorm/logger"
)

// NewLogger maps the application log level onto gorm's logger. SQL
// statements only show up at trace to keep info logs readable.
func NewLogger(logLevel string) logger.Interface {
	switch logLevel {
	case "trace":
		return logger.Default.LogMode(logger.Info)
	case "debug":
		return logger.Default.LogMode(logger.Warn)
	case "warn", "error":
		return logger.Default.LogMode(logger.Error)
	}
	return logger.Default.LogMode(logger.Silent)
}
