// Package server initializes and runs the Daybook API server: database and
// migrations, the Redis token store, object storage, the application
// services and the HTTP listener, with graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/ddanilov/daybook/internal/logging"
	"github.com/ddanilov/daybook/internal/server/config"
	"github.com/ddanilov/daybook/internal/server/httpapi"
	"github.com/ddanilov/daybook/internal/server/mailer"
	"github.com/ddanilov/daybook/internal/server/migrations"
	"github.com/ddanilov/daybook/internal/server/objectstore"
	"github.com/ddanilov/daybook/internal/server/repositories/entries"
	"github.com/ddanilov/daybook/internal/server/repositories/users"
	"github.com/ddanilov/daybook/internal/server/services"
	"github.com/ddanilov/daybook/internal/server/tokens"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger

	db     *sql.DB
	redis  *redis.Client
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	objects := objectstore.New(objectstore.Options{
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		Bucket:       cfg.S3Bucket,
	})

	var m mailer.Mailer
	if cfg.SMTPAddr == "" {
		m = mailer.NewLogMailer(logger)
	} else {
		m = mailer.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
	}

	authService := services.NewAuthService(
		users.NewPostgresRepository(db),
		tokens.NewRedisStore(redisClient),
		m,
		logger,
		services.AuthOptions{
			SecretKey:           cfg.SecretKey,
			AccessTokenValidity: cfg.AccessTokenValidity,
			LinkTokenValidity:   cfg.LinkTokenValidity,
			LinkBaseURL:         cfg.LinkBaseURL,
			LinkRatePerHour:     cfg.LinkRatePerHour,
			LinkBurst:           cfg.LinkBurst,
		},
	)

	entryService := services.NewEntryService(
		entries.NewPostgresRepository(db),
		objects,
		logger,
		cfg.PrivateBucket,
	)

	server := httpapi.New(cfg.Addr, authService, entryService, []byte(cfg.SecretKey), logger)

	return &App{config: cfg, logger: logger, db: db, redis: redisClient, server: server}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Run serves until the context is cancelled or a termination signal
// arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.server.Stop(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error(shutdownCtx, "redis close error", "error", err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err.Error())
	}

	return <-errCh
}
