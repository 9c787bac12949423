package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/storefront/db/schema"
	"github.com/Rana718/storefront/internal/database"
	"github.com/Rana718/storefront/template"
)

const configFile = "storefront.config.json"

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config, .env and schema file",
	Long: `Create storefront.config.json, a DATABASE_URL entry in .env, the data
directory and db/schema.sql for the chosen database. Existing files are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.MySQL
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		return initializeProject(".", dbType)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize for SQLite")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize for PostgreSQL")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize for MySQL (default)")
}

func initializeProject(root string, dbType template.DatabaseType) error {
	tmpl := template.NewProjectTemplate(dbType)

	directories := tmpl.GetDirectoryStructure()
	for _, dir := range directories {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	dialect, err := database.DialectFor(string(dbType))
	if err != nil {
		return err
	}
	ddl, err := schema.For(dialect.Name)
	if err != nil {
		return err
	}

	files := []struct {
		path    string
		content string
	}{
		{configFile, tmpl.GetConfig()},
		{filepath.Join("db", "schema.sql"), ddl},
	}
	for _, f := range files {
		path := filepath.Join(root, f.path)
		if _, err := os.Stat(path); err == nil {
			color.New(color.Faint).Printf("ℹ️  Skipped %s (already exists)\n", f.path)
			continue
		}
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", f.path, err)
		}
	}

	if err := handleEnvFile(filepath.Join(root, ".env"), tmpl.GetEnvTemplate()); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}

	color.Green("✅ Initialized storefront for %s", dbType)
	fmt.Println()
	fmt.Println("🚀 Next steps:")
	fmt.Println("   apply db/schema.sql to your database")
	fmt.Println("   put products, stores, vendors, customers and orderStatus documents in data/")
	fmt.Println("   storefront seed")
	fmt.Println("   storefront serve")

	return nil
}

// handleEnvFile appends DATABASE_URL to .env unless it is already set there.
func handleEnvFile(envPath, defaultEnvContent string) error {
	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, "DATABASE_URL") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}
	existingStr += "\n# Added by storefront init\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}
