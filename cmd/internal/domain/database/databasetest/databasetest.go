// Package databasetest opens throwaway SQLite databases for tests.
package databasetest

import (
	"path/filepath"
	"testing"

	"coursenotes/cmd/internal/config"
	"coursenotes/cmd/internal/domain/database"
	"coursenotes/cmd/internal/domain/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a migrated database backed by a file in t.TempDir().
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver:     database.DriverSQLite,
		Connection: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with a fixed password hash.
func CreateUser(t *testing.T, db *gorm.DB, id, email string) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:           id,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		FirstName:    "Test",
		LastName:     "User",
		CreatedAt:    1,
		UpdatedAt:    1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
