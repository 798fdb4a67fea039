package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/akinalp/realms/config"
	"github.com/akinalp/realms/database"
	"github.com/akinalp/realms/pkg/logger"
	"github.com/akinalp/realms/repository"
)

const shutdownTimeout = 5 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP and WebSocket server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Override SERVER_PORT",
			},
			&cli.BoolFlag{
				Name:  "allow-anonymous",
				Usage: "Accept WebSocket connections without a token (REALTIME_ALLOW_ANONYMOUS)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, log, err := loadRuntime(c)
			if err != nil {
				return err
			}
			defer log.Sync()

			if c.IsSet("port") {
				cfg.Server.Port = c.Int("port")
			}
			if c.Bool("allow-anonymous") {
				cfg.Realtime.AllowAnonymous = true
			}

			return serve(ctx, cfg, log)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations and exit",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, log, err := loadRuntime(c)
			if err != nil {
				return err
			}
			defer log.Sync()

			// database.New migration'ları açılışta uygular.
			db, err := database.New(cfg.Database.Path, database.Migrations(), log.Named("database"))
			if err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			return db.Close()
		},
	}
}

func pruneSessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune-sessions",
		Usage: "Delete expired refresh-token sessions",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, log, err := loadRuntime(c)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.New(cfg.Database.Path, database.Migrations(), log.Named("database"))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			n, err := repository.NewSQLiteSessionRepo(db.X).DeleteExpired(ctx)
			if err != nil {
				return fmt.Errorf("failed to prune sessions: %w", err)
			}
			log.Info("expired sessions pruned", zap.Int64("deleted", n))
			return nil
		},
	}
}

// loadRuntime, config'i ve logger'ı yükler. Tüm komutlar ortak kullanır.
func loadRuntime(c *cli.Command) (*config.Config, *zap.Logger, error) {
	var envFiles []string
	if f := c.String("env-file"); f != "" {
		envFiles = append(envFiles, f)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// serve, sunucuyu başlatır ve SIGINT/SIGTERM gelene kadar çalıştırır.
//
// Kapanış sırası: önce WebSocket bağlantıları (hub), sonra HTTP server,
// en son veritabanı.
func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	mainLog := log.Named("main")

	// ─── 1. Database ───
	db, err := database.New(cfg.Database.Path, database.Migrations(), log.Named("database"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// ─── 2. Application ───
	app := newApp(cfg, db, log)
	defer app.Close()

	// ─── 3. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		mainLog.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.Bool("anonymous_realtime", cfg.Realtime.AllowAnonymous),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// ─── 4. Graceful Shutdown ───
	mainLog.Info("shutting down")
	app.hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	mainLog.Info("server stopped")
	return nil
}
