package main

import (
	"github.com/spf13/cobra"
	"github.com/yukikurage/study-tracker-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		return database.Migrate(db, log)
	},
}
