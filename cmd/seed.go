package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rana718/storefront/internal/seeder"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the source documents into the database",
	Long: `Seed every retail table from the JSON/YAML documents in the data directory.

Tables that already hold rows are skipped, so running seed twice is safe.
Derived tables (vendor and store stock, orders) are generated randomly;
pass --random-seed to make a run reproducible.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		opts := []seeder.Option{
			seeder.WithLogger(a.log),
			seeder.WithRandom(seeder.NewRandom(a.cfg.Seed.RandomSeed)),
			seeder.WithConfig(seeder.Config{
				StockMode: a.cfg.Seed.StoreStockMode,
				MaxOrders: a.cfg.Seed.MaxOrders,
				BatchSize: a.cfg.Seed.BatchSize,
			}),
		}

		var bar *progressbar.ProgressBar
		opts = append(opts, seeder.WithProgress(func(result seeder.TableResult) {
			bar.Describe(result.Table)
			bar.Add(1)
		}))

		s, err := seeder.New(a.store, seeder.NewDirSource(a.cfg.Seed.DataDir), opts...)
		if err != nil {
			return err
		}

		color.New(color.FgCyan, color.Bold).Printf("🌱 Seeding from %s\n", a.cfg.Seed.DataDir)
		bar = progressbar.NewOptions(len(s.Order()),
			progressbar.OptionSetDescription("starting"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)

		report, err := s.Run(ctx)
		bar.Finish()
		fmt.Println()
		if report != nil {
			printReport(report)
		}
		if err != nil {
			color.Red("❌ Seeding failed: %v", err)
			return err
		}

		color.Green("✅ Seeded %d rows in %s", report.Inserted(), report.Duration.Round(time.Millisecond))
		return nil
	},
}

func printReport(report *seeder.Report) {
	faint := color.New(color.Faint)
	for _, t := range report.Tables {
		if t.Skipped {
			faint.Printf("  %-24s skipped (already seeded)\n", t.Table)
			continue
		}
		fmt.Printf("  %-24s %6d rows  %s\n", t.Table, t.Inserted, t.Duration.Round(time.Millisecond))
	}
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("data-dir", "", "Directory holding the source documents")
	seedCmd.Flags().String("mode", "", "Store stock mode: subset or full")
	seedCmd.Flags().Int("max-orders", 0, "Exclusive upper bound on order lines per customer")
	seedCmd.Flags().Int64("random-seed", 0, "Random seed (0 picks one from the clock)")
	seedCmd.Flags().Int("batch-size", 0, "Rows per insert statement (0 lets the database parameter limit decide)")

	viper.BindPFlag("seed.data_dir", seedCmd.Flags().Lookup("data-dir"))
	viper.BindPFlag("seed.store_stock_mode", seedCmd.Flags().Lookup("mode"))
	viper.BindPFlag("seed.max_orders", seedCmd.Flags().Lookup("max-orders"))
	viper.BindPFlag("seed.random_seed", seedCmd.Flags().Lookup("random-seed"))
	viper.BindPFlag("seed.batch_size", seedCmd.Flags().Lookup("batch-size"))
}
