package repository

import (
	"Mastosync/internal/api/config"
	"Mastosync/internal/pkg/database"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDB(&config.DBConfig{
		Driver:  "sqlite",
		DSN:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxIdle: 1,
		MaxOpen: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
