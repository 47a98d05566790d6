package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/delordemm1/notes-api/internal/cache"
	"github.com/delordemm1/notes-api/internal/config"
	"github.com/delordemm1/notes-api/internal/database"
	"github.com/delordemm1/notes-api/internal/identity"
	"github.com/delordemm1/notes-api/internal/modules/note"
	"github.com/delordemm1/notes-api/internal/modules/user"
	"github.com/delordemm1/notes-api/internal/notification"
	"github.com/delordemm1/notes-api/internal/notification/templates"
	"github.com/delordemm1/notes-api/internal/otp"
	"github.com/delordemm1/notes-api/internal/server"
	"github.com/delordemm1/notes-api/internal/token"
)

// Options for the CLI.
type Options struct {
	Port         int    `help:"Port to listen on (defaults to SERVER_PORT)" short:"p"`
	TemplatesDir string `help:"Read email templates from this directory instead of the embedded set"`
}

const oauthStateSweepInterval = 15 * time.Minute

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		cfg, err := config.Load()
		if err != nil {
			logger.Error("failed to load configuration", "error", err)
			os.Exit(1)
		}
		logger.Info("configuration loaded successfully", "env", cfg.Server.Env)

		ctx, cancel := context.WithCancel(context.Background())

		// --- Database & code store ---
		dbPool, err := database.NewPostgresPool(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}

		var codes otp.Issuer
		if cfg.Redis.URL != "" {
			redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
			if err != nil {
				logger.Error("failed to connect to redis", "error", err)
				os.Exit(1)
			}
			hooks.OnStop(func() { _ = redisClient.Close() })
			codes = otp.NewRedisStore(redisClient, cfg.Auth.CodeTTL)
		} else {
			logger.Warn("REDIS_URL is not set; one-time codes are kept in memory")
			codes = otp.NewMemoryStore(cfg.Auth.CodeTTL)
		}

		// --- Shared services ---
		tokens := token.NewIssuer(cfg.JWTSecret, cfg.Auth.SessionTTL)
		if cfg.JWTSecret == "" {
			logger.Warn("JWT_SECRET is not set; token issuance will fail")
		}
		logger.Info("session tokens configured", "ttl", tokens.TTL().String())
		renderer := templates.NewEngine(templates.Config{
			Dir:    options.TemplatesDir,
			Reload: options.TemplatesDir != "" && !cfg.IsProduction(),
		}, logger)
		notifier := notification.NewService(logger,
			notification.NewEmailSender(cfg.SMTP, cfg.IsProduction(), logger), renderer)

		// --- Modules ---
		userService := user.NewService(&user.Config{
			Repo:     user.NewRepository(dbPool),
			Codes:    codes,
			Identity: identity.NewGoogleVerifier(cfg.Google.ClientID),
			Tokens:   tokens,
			Notifier: notifier,
			Logger:   logger,
			Config:   cfg,
		})
		noteService := note.NewService(&note.Config{
			Repo:   note.NewRepository(dbPool),
			Logger: logger,
		})

		router := server.New(server.Deps{
			Users:  userService,
			Notes:  noteService,
			Tokens: tokens,
			Logger: logger,
		})

		port := cfg.Server.Port
		if options.Port != 0 {
			port = fmt.Sprint(options.Port)
		}
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		hooks.OnStart(func() {
			go sweepOAuthStates(ctx, userService, logger)

			logger.Info("starting server", "port", port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server failed to start", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			cancel()
			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown failed", "error", err)
			}
			dbPool.Close()
		})
	})
	cli.Run()
}

// sweepOAuthStates drops abandoned authorization-code flows until ctx ends.
func sweepOAuthStates(ctx context.Context, users user.Service, logger *slog.Logger) {
	ticker := time.NewTicker(oauthStateSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := users.PurgeExpiredOAuthStates(ctx); err != nil {
				logger.Error("failed to purge oauth states", "error", err)
			}
		}
	}
}
