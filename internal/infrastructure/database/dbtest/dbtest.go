// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"strings"
	"testing"

	"github.com/sangkips/sparta-gym-api/internal/config"
	"github.com/sangkips/sparta-gym-api/internal/infrastructure/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated and seeded in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewSQLiteDB("file:"+name+"?mode=memory&cache=shared", logger.Silent)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if err := database.SeedDefaultData(db, config.AdminConfig{}); err != nil {
		t.Fatalf("seed test db: %v", err)
	}
	return db
}
