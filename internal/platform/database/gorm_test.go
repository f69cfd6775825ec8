package database

import (
	"testing"

	"gamehub_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewGORM_SQLiteInMemory(t *testing.T) {
	db, cleanup, err := NewGORM(&config.Config{DBDriver: "sqlite", DBSQLitePath: ":memory:", LogLevel: "error"}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestNewGORM_UnsupportedDriver(t *testing.T) {
	_, _, err := NewGORM(&config.Config{DBDriver: "mysql"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}
