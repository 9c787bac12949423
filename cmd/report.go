package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/storefront/internal/reports"
	"github.com/Rana718/storefront/internal/utils"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print one of the sales reports in the terminal",
}

// reportRunner wraps a report body with setup and teardown.
func reportRunner(run func(cmd *cobra.Command, svc *reports.Service) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, reports.NewService(a.store))
	}
}

func productRows(products []reports.ProductSales, withState bool) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		row := []string{strconv.FormatInt(p.StoreID, 10), p.UPC, p.Name, strconv.FormatInt(p.TotalSold, 10)}
		if withState {
			row = append([]string{p.State}, row...)
		}
		rows = append(rows, row)
	}
	return rows
}

var topProductsByStoreCmd = &cobra.Command{
	Use:   "top-products-by-store",
	Short: "Best selling products of every store",
	RunE: reportRunner(func(cmd *cobra.Command, svc *reports.Service) error {
		limit, _ := cmd.Flags().GetInt("limit")
		products, err := svc.TopProductsByStore(cmd.Context(), limit)
		if err != nil {
			return err
		}
		utils.WriteTable(os.Stdout, []string{"store", "upc", "name", "sold"}, productRows(products, false))
		return nil
	}),
}

var topProductsByStateCmd = &cobra.Command{
	Use:   "top-products-by-state",
	Short: "Best selling products of every state",
	RunE: reportRunner(func(cmd *cobra.Command, svc *reports.Service) error {
		limit, _ := cmd.Flags().GetInt("limit")
		products, err := svc.TopProductsByState(cmd.Context(), limit)
		if err != nil {
			return err
		}
		utils.WriteTable(os.Stdout, []string{"state", "store", "upc", "name", "sold"}, productRows(products, true))
		return nil
	}),
}

var topStoresCmd = &cobra.Command{
	Use:   "top-stores",
	Short: "Stores with the most orders this year",
	RunE: reportRunner(func(cmd *cobra.Command, svc *reports.Service) error {
		limit, _ := cmd.Flags().GetInt("limit")
		now := time.Now().UTC()
		since := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

		stores, err := svc.TopStores(cmd.Context(), since, limit)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(stores))
		for _, s := range stores {
			rows = append(rows, []string{strconv.FormatInt(s.StoreID, 10), strconv.FormatInt(s.Orders, 10)})
		}
		fmt.Printf("Orders since %s\n", since.Format("January 2, 2006"))
		utils.WriteTable(os.Stdout, []string{"store", "orders"}, rows)
		return nil
	}),
}

var brandShowdownCmd = &cobra.Command{
	Use:   "brand-showdown",
	Short: "Compare two brands store by store within a category",
	RunE: reportRunner(func(cmd *cobra.Command, svc *reports.Service) error {
		category, _ := cmd.Flags().GetString("category")
		brandA, _ := cmd.Flags().GetString("brand-a")
		brandB, _ := cmd.Flags().GetString("brand-b")

		showdown, err := svc.BrandShowdown(cmd.Context(), category, brandA, brandB)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(showdown.Stores))
		for _, s := range showdown.Stores {
			rows = append(rows, []string{
				strconv.FormatInt(s.StoreID, 10),
				strconv.FormatInt(s.SalesA, 10),
				strconv.FormatInt(s.SalesB, 10),
				s.Winner,
			})
		}
		utils.WriteTable(os.Stdout, []string{"store", brandA, brandB, "winner"}, rows)
		color.New(color.Bold).Printf("%s outsells %s in %d of %d stores.\n", brandA, brandB, showdown.WinsA, len(showdown.Stores))
		return nil
	}),
}

var topCategoriesCmd = &cobra.Command{
	Use:   "top-categories",
	Short: "Categories with the most units sold",
	RunE: reportRunner(func(cmd *cobra.Command, svc *reports.Service) error {
		limit, _ := cmd.Flags().GetInt("limit")
		exclude, _ := cmd.Flags().GetString("exclude")

		categories, err := svc.TopCategories(cmd.Context(), exclude, limit)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(categories))
		for _, c := range categories {
			rows = append(rows, []string{c.Name, strconv.FormatInt(c.TotalSold, 10)})
		}
		utils.WriteTable(os.Stdout, []string{"category", "sold"}, rows)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(topProductsByStoreCmd, topProductsByStateCmd, topStoresCmd, brandShowdownCmd, topCategoriesCmd)

	topProductsByStoreCmd.Flags().Int("limit", 20, "Products per store")
	topProductsByStateCmd.Flags().Int("limit", 20, "Products per state")
	topStoresCmd.Flags().Int("limit", 5, "Stores to list")
	topCategoriesCmd.Flags().Int("limit", 3, "Categories to list")
	topCategoriesCmd.Flags().String("exclude", "Best Buy", "Category name to leave out")

	brandShowdownCmd.Flags().String("category", "Laptops", "Category to compare within")
	brandShowdownCmd.Flags().String("brand-a", "HP", "First brand")
	brandShowdownCmd.Flags().String("brand-b", "Lenovo", "Second brand")
}
