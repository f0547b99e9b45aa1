package cmd

import (
	"fmt"
	"github.com/AlebrijeLabs/albj-discord-bot/albjbot"
	"github.com/spf13/cobra"
	"gorm.io/gorm/schema"
	"log"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		if cfg.DatabaseType == "" {
			log.Fatal("Environment variable ALBJ_DATABASE_TYPE not set (must be one of: sqlite, postgres)")
		}
		if cfg.Database == "" {
			log.Fatal(
				"Environment variable ALBJ_DATABASE not set (must be a valid " +
					"database connection string or sqlite file path)",
			)
		}
		// Run database migrations
		db, err := albjbot.CreateDB(ctx, cfg.DatabaseType, cfg.Database)
		if err != nil {
			log.Fatalf("Error creating database: %v", err)
		}
		defer func() {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
		}()

		out := cmd.OutOrStdout()
		mg := db.Migrator()
		for _, model := range []schema.Tabler{&albjbot.CheckIn{}, &albjbot.NotificationPreference{}} {
			var count int64
			if err = db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
				log.Fatalf("Error counting rows: %v", err)
			}
			fmt.Fprintf(
				out,
				"table %s: exists=%t rows=%d\n",
				model.TableName(),
				mg.HasTable(model),
				count,
			)
		}

		fmt.Fprintln(
			out,
			"Initialization complete. You can now start the bot with the 'run' subcommand.",
		)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
