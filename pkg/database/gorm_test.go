package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteConnMaxLifetime(t *testing.T) {
	assert.Zero(t, sqliteConnMaxLifetime(":memory:"))
	assert.Equal(t, time.Hour, sqliteConnMaxLifetime("app.db"))
}

func TestNewSQLiteDBInMemoryKeepsTables(t *testing.T) {
	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("CREATE TABLE scratch_rows (id INTEGER PRIMARY KEY)").Error)
	require.NoError(t, db.Exec("INSERT INTO scratch_rows (id) VALUES (1)").Error)

	var n int64
	require.NoError(t, db.Table("scratch_rows").Count(&n).Error)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	assert.Error(t, err)
}
