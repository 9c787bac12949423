package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Rana718/storefront/internal/catalog"
	"github.com/Rana718/storefront/internal/metrics"
	"github.com/Rana718/storefront/internal/reports"
	"github.com/Rana718/storefront/internal/seeder"
	"github.com/Rana718/storefront/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and reports over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := metrics.New(reg)

		seed, err := seeder.New(a.store, seeder.NewDirSource(a.cfg.Seed.DataDir),
			seeder.WithLogger(a.log),
			seeder.WithMetrics(m.Seed),
			seeder.WithRandom(seeder.NewRandom(a.cfg.Seed.RandomSeed)),
			seeder.WithConfig(seeder.Config{
				StockMode: a.cfg.Seed.StoreStockMode,
				MaxOrders: a.cfg.Seed.MaxOrders,
				BatchSize: a.cfg.Seed.BatchSize,
			}),
		)
		if err != nil {
			return err
		}

		srv, err := server.New(seed,
			catalog.NewService(a.store, a.cfg.Server.PageSize),
			reports.NewService(a.store),
			server.Options{
				Port:     a.cfg.Server.Port,
				Logger:   a.log,
				Metrics:  m.HTTP,
				Gatherer: reg,
			},
		)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		color.Green("🚀 Storefront running at http://localhost:%d", a.cfg.Server.Port)

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			a.log.Error("shutdown failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default $PORT or 3000)")
	serveCmd.Flags().Int("page-size", 0, "Products per catalog page")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.page_size", serveCmd.Flags().Lookup("page-size"))
}
