package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"joingate/internal/config"
	"joingate/internal/handlers"
	"joingate/internal/repositories"
	"joingate/internal/routes"
	"joingate/internal/services"
)

const shutdownTimeout = 10 * time.Second

// App собирает зависимости бота по конфигу.
type App struct {
	cfg *config.Config
	log *slog.Logger

	db        *sql.DB
	tg        *services.TelegramService
	sessions  repositories.SessionRepository
	scheduler services.TimeoutScheduler
	bot       *handlers.BotHandler
	pipeline  *handlers.Pipeline
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	a := &App{cfg: cfg, log: log}

	// === DB ===
	if cfg.NeedsDatabase() {
		db, err := repositories.OpenPostgres(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		if err := repositories.UpMigrations(db); err != nil {
			a.Close()
			return nil, err
		}
	}

	// === Telegram ===
	tg, err := services.NewTelegramService(cfg.Telegram.Token, services.TelegramOptions{
		APIEndpoint: cfg.Telegram.APIEndpoint,
		RetryMax:    cfg.Telegram.RetryMax,
	}, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.tg = tg

	// === Repos ===
	if cfg.Store.Backend == config.BackendPostgres {
		a.sessions = repositories.NewSessionRepository(a.db, time.Now)
	} else {
		a.sessions = repositories.NewMemorySessionRepository(time.Now)
	}

	if cfg.Scheduler.Backend == config.BackendPostgres {
		s := services.NewPostgresScheduler(repositories.NewTimeoutRepository(a.db), log)
		s.PollInterval = cfg.Scheduler.PollInterval
		a.scheduler = s
	} else {
		a.scheduler = services.NewLocalScheduler(log)
	}

	// === Services ===
	guard := services.NewMembershipGuard(tg)
	verify := services.NewVerificationService(a.sessions, a.scheduler, guard, tg, tg, log)
	verify.Timeout = cfg.Captcha.Timeout
	verify.MaxSwaps = cfg.Captcha.MaxSwaps

	// === Handlers ===
	a.bot = handlers.NewBotHandler(cfg.Community, verify, guard, tg, log)
	a.pipeline = a.bot.Pipeline()

	log.Info("app configured",
		"community", cfg.Community,
		"store", cfg.Store.Backend,
		"scheduler", cfg.Scheduler.Backend,
		"timeout", cfg.Captcha.Timeout,
	)
	return a, nil
}

func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("close db", "error", err)
		}
	}
}

// Router builds the gin engine with the webhook and health routes.
func (a *App) Router() *gin.Engine {
	if !a.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	webhook := handlers.NewWebhookHandler(a.pipeline, a.log)
	return routes.SetupRoutes(router, webhook, a.cfg.Telegram.WebhookSecret)
}

// Serve registers the webhook and serves updates over HTTP until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	if a.cfg.Telegram.WebhookURL != "" {
		if err := a.tg.SetWebhook(a.cfg.Telegram.WebhookURL, a.cfg.Telegram.WebhookSecret); err != nil {
			return err
		}
	} else {
		a.log.Warn("webhook url is empty, expecting the webhook to be set externally")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	a.background(ctx, g)
	g.Go(func() error {
		a.log.Info("http server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Poll serves updates over long polling until ctx is done. Each update is
// handled in its own goroutine, like concurrent webhook requests.
func (a *App) Poll(ctx context.Context) error {
	updates, err := a.tg.Updates()
	if err != nil {
		return err
	}

	// без вебхука Telegram не передоставит апдейт, повторяем сами
	dispatcher := handlers.NewRetryingDispatcher(a.pipeline, a.log)

	g, ctx := errgroup.WithContext(ctx)
	a.background(ctx, g)
	g.Go(func() error {
		var inflight sync.WaitGroup
		defer inflight.Wait()
		a.log.Info("long polling started")
		for {
			select {
			case <-ctx.Done():
				a.tg.StopUpdates()
				return nil
			case up, ok := <-updates:
				if !ok {
					return nil
				}
				inflight.Add(1)
				go func() {
					defer inflight.Done()
					if err := dispatcher.Dispatch(ctx, &up); err != nil {
						a.log.ErrorContext(ctx, "dispatch update", "update_id", up.UpdateID, "error", err)
					}
				}()
			}
		}
	})
	return g.Wait()
}

// background запускает планировщик таймаутов и чистку просроченных сессий.
func (a *App) background(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		return a.scheduler.Run(ctx, a.bot.HandleTimeout)
	})
	g.Go(func() error {
		ticker := time.NewTicker(a.cfg.Store.PurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := a.sessions.PurgeExpired(ctx)
				if err != nil {
					a.log.ErrorContext(ctx, "purge expired sessions", "error", err)
					continue
				}
				if n > 0 {
					a.log.InfoContext(ctx, "expired sessions purged", "count", n)
				}
			}
		}
	})
}

// Migrate applies the database migrations and exits.
func Migrate(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if cfg.Database.DSN == "" {
		return errors.New("config: DATABASE_URL is required for migrate")
	}
	db, err := repositories.OpenPostgres(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.UpMigrations(db); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}
