package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roster/internal/config"
	"roster/internal/model"
)

func TestOpenSQLiteMigrates(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "roster.db"),
	}

	db, err := Open(cfg)
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&model.Entry{}))
	assert.True(t, db.Migrator().HasTable("kv_entries"))
}

func TestOpenRejectsMemoryDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: config.DriverMemory})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory")
}
