package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.0.0"
)

func showBanner() {
	blue := color.New(color.FgBlue, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════╗",
		"║                                              ║",
		"║   🛒  S T O R E F R O N T                    ║",
		"║                                              ║",
		"║   Retail seed data, catalog and reports      ║",
		"║                                              ║",
		"╚══════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		blue.Println(line)
	}

	fmt.Print("          ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Seed a retail database and browse it",
	Long: `
Storefront loads synthetic retail data (products, stores, vendors, customers
and orders) into an existing MySQL, PostgreSQL or SQLite database, then serves
a paginated catalog and a handful of sales reports over HTTP.

Seeding is idempotent: tables that already hold rows are skipped, so a failed
run can simply be retried.`,
	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("storefront version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./storefront.config.json)")
	rootCmd.PersistentFlags().String("db", "", "Database URL (overrides config/env)")
	rootCmd.PersistentFlags().String("provider", "", "Database provider: mysql, postgres, sqlite, sqlite3")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	viper.BindPFlag("database.provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("storefront.config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		color.New(color.Faint).Printf("Using config file: %s\n", viper.ConfigFileUsed())
	}
}
