package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meddata/internal/cache"
	"meddata/internal/config"
	"meddata/internal/database"
	"meddata/internal/repositories"
	"meddata/internal/server"
	"meddata/internal/services"
	"meddata/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	rootCmd := &cobra.Command{
		Use:          "meddata",
		Short:        "Personal health record API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".env", "Path to an optional env file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configPath)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer database.Close(db)
			log.Info("Database schema is up to date")
			return nil
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert default allergies and chronic diseases",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer database.Close(db)
			return runSeed(cmd.Context(), cfg, log, db)
		},
	})
	return rootCmd
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// bootstrap loads configuration, opens the database and migrates the schema.
func bootstrap(configPath string) (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	log := newLogger(cfg.Log.Level)

	db, err := database.Open(cfg.DB, log)
	if err != nil {
		log.Errorf("Failed to open database: %v", err)
		return nil, nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		log.Errorf("Failed to migrate database: %v", err)
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func newCache(ctx context.Context, cfg *config.Config, log *logrus.Logger) (cache.Cache, func()) {
	if cfg.Redis.URL == "" {
		return cache.Noop{}, func() {}
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis.URL, log)
	if err != nil {
		log.Warnf("Reference cache disabled: %v", err)
		return cache.Noop{}, func() {}
	}
	return cache.NewRedisCache(client, cfg.Redis.CacheTTL), func() { client.Close() }
}

func runSeed(ctx context.Context, cfg *config.Config, log *logrus.Logger, db *gorm.DB) error {
	if ctx == nil {
		ctx = context.Background()
	}
	refRepo := repositories.NewGORMReferenceRepository(db)
	if err := database.Seed(ctx, refRepo, log); err != nil {
		return err
	}
	refCache, closeCache := newCache(ctx, cfg, log)
	defer closeCache()
	services.NewReferenceService(refRepo, refCache, log).Invalidate(ctx)
	log.Info("Reference data seeded")
	return nil
}

func runServer(configPath string) error {
	cfg, log, db, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx := context.Background()
	refCache, closeCache := newCache(ctx, cfg, log)
	defer closeCache()

	var events services.EventPublisher = services.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, log)
		if err != nil {
			log.Warnf("Event publishing disabled: %v", err)
		} else {
			defer mqClient.Close()
			events = mqClient
		}
	}

	app, err := server.New(cfg, server.Dependencies{
		DB:     db,
		Files:  afero.NewOsFs(),
		Cache:  refCache,
		Events: events,
		Log:    log,
	})
	if err != nil {
		return err
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", cfg.App.Port)
		listenErr <- app.Listen(cfg.App.Port)
	}()

	select {
	case err := <-listenErr:
		log.Errorf("Server failed to start: %v", err)
		return err
	case <-quit:
	}

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Error during Fiber shutdown: %v", err)
	}
	log.Info("Server gracefully stopped")
	return nil
}
