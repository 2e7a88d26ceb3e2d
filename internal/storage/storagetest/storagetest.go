// Package storagetest 提供測試用的 SQLite 資料庫。
package storagetest

import (
	"testing"

	"gorm.io/driver/sqlite"

	"fleet_tracker/internal/storage"
)

// NewTestDB 建立已遷移的記憶體 SQLite 資料庫，測試結束時自動關閉
func NewTestDB(t testing.TB) *storage.DB {
	t.Helper()

	db, err := storage.Open(sqlite.Open("file::memory:?_foreign_keys=on"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// 記憶體資料庫只存在於單一連線
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
