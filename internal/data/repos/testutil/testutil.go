package testutil

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/academy-backend/internal/data/db"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

// Logger routes warnings and above to the test's own output.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Wrap(zaptest.NewLogger(tb, zaptest.Level(zap.WarnLevel)))
}

// DB opens a fresh, migrated SQLite database in the test's temp dir.
// A single connection keeps every statement on the same database file handle,
// so code running inside a transaction must only use that transaction.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "test.db")
	conn, err := gorm.Open(sqlite.Open(db.SQLiteDSN(path)), db.GormConfig(gormLogger.Default.LogMode(gormLogger.Silent)))
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		tb.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrateAll(conn); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	if err := db.EnsureIndexes(conn); err != nil {
		tb.Fatalf("index test db: %v", err)
	}
	return conn
}

// Tx opens a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
