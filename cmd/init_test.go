package cmd

import (
	"bytes"
	"github.com/AlebrijeLabs/albj-discord-bot/albjbot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"os"
	"path/filepath"
	"testing"
)

func TestInitCommand(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "data", "test.db")

	configFile = ""
	t.Setenv("ALBJ_DATABASE_TYPE", "sqlite")
	t.Setenv("ALBJ_DATABASE", dbPath)

	currentOut := rootCmd.OutOrStdout()
	currentErr := rootCmd.OutOrStderr()
	t.Cleanup(
		func() {
			rootCmd.SetOut(currentOut)
			rootCmd.SetErr(currentErr)
		},
	)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	rootCmd.SetArgs([]string{"init"})
	err := rootCmd.Execute()
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")

	output := out.String()
	t.Logf("output: %s", output)
	assert.Contains(t, output, "table user_checkins: exists=true rows=0")
	assert.Contains(t, output, "table user_notifications: exists=true rows=0")
	assert.Contains(t, output, "Initialization complete")

	db, err := gorm.Open(sqlite.Open(dbPath))
	require.NoError(t, err)

	t.Cleanup(
		func() {
			sqlDB, _ := db.DB()
			if sqlDB != nil {
				_ = sqlDB.Close()
			}
		},
	)

	mg := db.Migrator()
	assert.True(t, mg.HasTable(&albjbot.CheckIn{}))
	assert.True(t, mg.HasTable(&albjbot.NotificationPreference{}))
	assert.True(t, mg.HasColumn(&albjbot.CheckIn{}, "last_checkin"))
	assert.True(t, mg.HasColumn(&albjbot.NotificationPreference{}, "daily_updates"))
}
