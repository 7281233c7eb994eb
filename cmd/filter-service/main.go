package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	_ "reportfilter/cmd/filter-service/docs"
	"reportfilter/internal/config"
	"reportfilter/internal/constants"
	"reportfilter/internal/db"
	"reportfilter/internal/logger"
	"reportfilter/internal/options"
	"reportfilter/internal/report"
	"reportfilter/pkg/bootstrap"
	"reportfilter/pkg/logging"
	"reportfilter/pkg/migrations"
)

var (
	configFile string
)

// @title           Report Filter Service API
// @version         1.0
// @description     Resolves dependent link filters of report views and serves their candidate options
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.example.com/support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @schemes   http https

func main() {
	rootCmd := &cobra.Command{
		Use:   constants.ServiceName,
		Short: "Report filter service",
		Long:  "Report filter service computes dependent filter restrictions and serves link filter options",
		RunE:  serveCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (required)")

	rootCmd.AddCommand(serveCmd(), migrateCmd(), reportsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(earlyLog *logging.EarlyLog) (*config.Config, error) {
	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
		if configFile == "" {
			earlyLog.Error("Config file is required. Use --config flag or CONFIG_FILE environment variable")
			return nil, fmt.Errorf("config file is required")
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		earlyLog.Error("Failed to load config: %v", err)
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, earlyLog *logging.EarlyLog) (logger.Logger, error) {
	log, err := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		earlyLog.Error("Failed to init logger: %v", err)
		return nil, err
	}
	if sl, ok := log.(*logger.SugaredLogger); ok {
		sl.SetServiceName(constants.ServiceName)
	}
	return log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the filter service",
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logging.NewEarlyLog(constants.ServiceName)

			cfg, err := loadConfig(earlyLog)
			if err != nil {
				return err
			}

			log, err := newLogger(cfg, earlyLog)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.InfowCtx(ctx, "Starting filter service")

			app := NewApp(cfg, log)
			if err := app.Initialize(ctx); err != nil {
				log.ErrorwCtx(ctx, "Failed to initialize application", "error", err)
				if shutdownErr := app.Shutdown(ctx); shutdownErr != nil {
					log.ErrorwCtx(ctx, "Cleanup after failed start", "error", shutdownErr)
				}
				return err
			}

			if err := app.Run(ctx); err != nil {
				log.ErrorwCtx(ctx, "Application error", "error", err)
				return err
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations and MongoDB indexes for the entity store",
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logging.NewEarlyLog(constants.ServiceName)

			cfg, err := loadConfig(earlyLog)
			if err != nil {
				return err
			}

			log, err := newLogger(cfg, earlyLog)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.ConnectTimeout)
			defer cancel()

			dc := bootstrap.NewDatabaseConnector(cfg, log)

			pg, err := dc.InitPostgreSQL(ctx)
			if err != nil {
				return err
			}
			mongoClient, err := dc.InitMongoDB(ctx)
			if err != nil {
				dc.ShutdownDatabases(ctx, nil, pg, nil)
				return err
			}
			defer dc.ShutdownDatabases(context.Background(), nil, pg, mongoClient)

			if pg == nil && mongoClient == nil {
				return fmt.Errorf("neither postgres nor mongodb is configured")
			}

			if pg != nil {
				version, err := db.Migrate(pg)
				if err != nil {
					return err
				}
				log.InfowCtx(ctx, "PostgreSQL migrations applied", "version", version)
			}

			if mongoClient != nil {
				collections := options.DefaultCatalog().Collections()
				if err := migrations.EnsureEntityIndexes(ctx, dc.MongoDatabase(mongoClient), collections); err != nil {
					return err
				}
				log.InfowCtx(ctx, "MongoDB indexes ensured", "collections", len(collections))
			}

			return nil
		},
	}
}

func reportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "Print the built-in report filter sets as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := report.NewBuiltinRegistry()
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()

			return enc.Encode(registry.All())
		},
	}
}
