package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/storefront/internal/export"
	"github.com/Rana718/storefront/internal/seeder"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every seeded table to JSON or CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		format, _ := cmd.Flags().GetString("format")
		dir, _ := cmd.Flags().GetString("out")

		path, err := export.Export(ctx, a.store, seeder.Tables(), dir, format, time.Now())
		if err != nil {
			color.Red("❌ Export failed: %v", err)
			return err
		}

		color.Green("✅ Exported to %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("format", "f", export.FormatJSON, "Output format: json or csv")
	exportCmd.Flags().StringP("out", "o", "db/export", "Directory to write the export to")
}
