package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rana718/storefront/db/schema"
	"github.com/Rana718/storefront/internal/config"
	"github.com/Rana718/storefront/internal/database"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the reference DDL for the configured provider",
	Long: `Print the CREATE TABLE statements the seeder expects.

Storefront never creates tables itself; pipe this into your database client
to prepare an empty database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		dialect, err := database.DialectFor(cfg.Database.Provider)
		if err != nil {
			return err
		}
		ddl, err := schema.For(dialect.Name)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), ddl)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
