package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/storefront/internal/seeder"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts for every seeded table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("📊 %s database\n", a.cfg.Database.Provider)
		fmt.Println()

		empty := 0
		for _, table := range seeder.Tables() {
			count, err := a.store.Count(ctx, table)
			if err != nil {
				color.Red("  %-24s %v", table, err)
				return err
			}
			if count == 0 {
				empty++
				color.Yellow("  %-24s empty", table)
				continue
			}
			color.Green("  %-24s %d rows", table, count)
		}

		fmt.Println()
		if empty > 0 {
			color.Yellow("⚠️  %d table(s) not seeded yet. Run 'storefront seed'.", empty)
		} else {
			color.Green("✅ Every table is seeded")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
