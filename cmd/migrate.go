package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"groupbuy/internal/config"
	"groupbuy/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "load config")
		}
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			return err
		}
		newLogger(cfg).Info("migrations applied successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
