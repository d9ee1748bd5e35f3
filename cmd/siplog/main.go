package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"siplog/internal/clients/cache"
	"siplog/internal/clients/term"
	"siplog/internal/config"
	"siplog/internal/logger"
	"siplog/internal/model/export"
	"siplog/internal/model/session"
	"siplog/internal/model/storage"
	"siplog/internal/model/tracker"
)

var (
	exportUserID string
	exportAll    bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "siplog",
		Short:         "Personal consumption log",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runInteractive,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to a CSV file",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&exportUserID, "user", "", "user ID to export")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "export every user")
	rootCmd.AddCommand(exportCmd)

	return rootCmd
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	store, err := storage.NewSQLiteStorage(conf.Storage())
	if err != nil {
		logger.Fatal("failed to init storage:", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage:", zap.Error(err))
		}
	}()

	client := term.New()
	msgService := tracker.NewService(
		client,
		session.New(conf.App(), store),
		export.New(conf.App(), store),
		store,
		newCache(conf),
		client,
		conf.App(),
	)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	client.ListenCommands(ctx, msgService)
	return nil
}

func runExport(_ *cobra.Command, _ []string) error {
	if exportUserID == "" && !exportAll {
		return fmt.Errorf("either --user or --all is required")
	}

	conf, err := config.New()
	if err != nil {
		return err
	}
	store, err := storage.NewSQLiteStorage(conf.Storage())
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage:", zap.Error(err))
		}
	}()

	exporter := export.New(conf.App(), store)
	now := time.Now()

	var file export.File
	if exportAll {
		file, err = exporter.ExportAll(now)
	} else {
		file, err = exporter.ExportUser(exportUserID, now)
	}
	if err != nil {
		return err
	}

	if err = os.WriteFile(file.Name, []byte(file.Content), 0o644); err != nil {
		return err
	}
	fmt.Println("Saved", file.Name)
	return nil
}

// newCache prefers memcached when hosts are configured and falls back to the
// in-process cache when they are not reachable.
func newCache(conf *config.Service) tracker.ReportCache {
	if !conf.Memcached().Enabled() {
		return cache.NewLocal()
	}
	mc, err := cache.NewMemcache(conf.Memcached())
	if err != nil {
		logger.Warn("memcached unreachable, using local cache", zap.Error(err))
		return cache.NewLocal()
	}
	return mc
}
