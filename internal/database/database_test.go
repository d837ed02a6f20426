package database_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/config"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/database"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/testhelpers"
)

func TestMigrationNames(t *testing.T) {
	names, err := database.MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	assert.Equal(t, "0001_create_users.sql", names[0])
	for _, n := range names {
		assert.False(t, strings.HasSuffix(n, "_rollback.sql"), n)
	}

	sql, err := database.ReadMigration(names[0])
	require.NoError(t, err)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS users")
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{SQLitePath: "file::memory:?cache=shared"}
	db, err := database.Open(cfg, testhelpers.TestLogger())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestRunMigrationsSQLite(t *testing.T) {
	db := testhelpers.SetupSQLite(t)

	user := model.User{Username: "cook", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)

	assert.True(t, db.Migrator().HasTable(&model.Favorite{}))
	assert.True(t, db.Migrator().HasTable(&model.RecipeCacheEntry{}))
	assert.True(t, db.Migrator().HasTable(&model.RevokedToken{}))
}

func TestRunMigrationsPostgres(t *testing.T) {
	db := testhelpers.SetupPostgres(t)

	var count int64
	require.NoError(t, db.Table("schema_migrations").Count(&count).Error)
	names, err := database.MigrationNames()
	require.NoError(t, err)
	assert.Equal(t, int64(len(names)), count)

	// Applying again is a no-op.
	require.NoError(t, database.RunMigrations(db, testhelpers.TestLogger()))
	require.NoError(t, db.Table("schema_migrations").Count(&count).Error)
	assert.Equal(t, int64(len(names)), count)

	user := model.User{Username: "cook", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	assert.True(t, db.Migrator().HasTable("revoked_tokens"))
}
