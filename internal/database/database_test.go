package database_test

import (
	"testing"

	"akun/internal/database"
	"akun/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenGORM_SQLiteMigratesUsers(t *testing.T) {
	db, err := database.OpenGORM("sqlite", "file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "Email"))
}

func TestOpenGORM_UnknownDriver(t *testing.T) {
	_, err := database.OpenGORM("oracle", "dsn")
	assert.Error(t, err)
}
