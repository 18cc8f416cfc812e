package main

import (
	"github.com/spf13/cobra"

	"groupbuy/internal/db"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo campaigns and pledges",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		if err = db.Seed(cmd.Context(), rt.app.Campaigns, rt.app.Pledges); err != nil {
			return err
		}
		rt.logger.Info("demo data seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
