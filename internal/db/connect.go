// Package db manages GORM connections and schema migration.
package db

import (
	"fmt"

	"github.com/zulandar/switchboard/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a GORM connection for the configured driver. TranslateError
// is enabled so duplicate-key violations surface as gorm.ErrDuplicatedKey
// on both sqlite and mysql; the ingestion path depends on that.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.DB.Driver {
	case "sqlite":
		// Immediate txlock serializes write transactions up front, so
		// concurrent ingests wait on the busy timeout instead of failing
		// with SQLITE_BUSY mid-transaction.
		dial = sqlite.Open(cfg.DB.Path + "?_busy_timeout=5000&_txlock=immediate")
	case "mysql":
		dial = mysql.Open(cfg.DB.DSN())
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.DB.Driver)
	}

	gormDB, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect (%s): %w", cfg.DB.Driver, err)
	}
	return gormDB, nil
}
