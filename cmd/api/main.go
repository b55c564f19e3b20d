package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/psouza/agenda-api/internal/calendar"
	"github.com/psouza/agenda-api/internal/config"
	agendaHandler "github.com/psouza/agenda-api/internal/handler/agenda"
	healthHandler "github.com/psouza/agenda-api/internal/handler/health"
	"github.com/psouza/agenda-api/internal/ledger"
	"github.com/psouza/agenda-api/internal/middleware"
	"github.com/psouza/agenda-api/internal/notify"
	"github.com/psouza/agenda-api/internal/router"
	agendaService "github.com/psouza/agenda-api/internal/service/agenda"
	"github.com/psouza/agenda-api/pkg/logger"
	"github.com/psouza/agenda-api/pkg/metrics"
)

func main() {
	appLogger := logger.New(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal(err, "failed to load configuration")
	}

	m := metrics.New("agenda")

	// Ledger store
	store := ledger.NewStore(cfg.Ledger.Path, m)

	// Calendar provider
	ctx := context.Background()
	googleClient, err := calendar.NewGoogleClient(ctx, calendar.GoogleConfig{
		CredentialsFile: cfg.Secrets.GoogleCredentialsFile,
		CalendarID:      cfg.Calendar.CalendarID,
		Timezone:        cfg.Calendar.Timezone,
		MaxResults:      cfg.Calendar.MaxResults,
		ReminderMinutes: cfg.Calendar.ReminderMinutes,
	}, m)
	if err != nil {
		appLogger.Fatal(err, "failed to initialize calendar client")
	}
	var calClient calendar.Client = googleClient
	if cfg.Calendar.CacheTTL > 0 {
		calClient = calendar.NewCachedClient(googleClient, cfg.Calendar.CacheTTL)
	}

	// Notification channels, all best-effort
	var notifiers []notify.Notifier
	if cfg.Notify.Telegram.Enabled {
		tg, err := notify.NewTelegramNotifier(notify.TelegramConfig{
			Token:            cfg.Secrets.TelegramToken,
			ChatID:           cfg.Notify.Telegram.ChatID,
			ReplyToMessageID: cfg.Notify.Telegram.ReplyToMessageID,
		})
		if err != nil {
			appLogger.Error(err, "telegram notifier unavailable, continuing without it")
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	if cfg.Notify.Email.Enabled {
		notifiers = append(notifiers, notify.NewEmailNotifier(notify.EmailConfig{
			Host:     cfg.Notify.Email.Host,
			Port:     cfg.Notify.Email.Port,
			Username: cfg.Secrets.SMTPUsername,
			Password: cfg.Secrets.SMTPPassword,
			From:     cfg.Notify.Email.From,
			To:       cfg.Notify.Email.To,
		}))
	}

	// Service and handlers
	svc := agendaService.NewService(store, calClient, notifiers, appLogger, m, cfg.Calendar.LookbackDays)
	agendaH := agendaHandler.NewHandler(svc, cfg.Server.ConfirmTTL)
	healthH := healthHandler.NewHandler(store)

	// Router
	r := router.NewRouter(agendaH, healthH, router.Config{
		RateLimit:  rate.Limit(cfg.Server.RateLimitRPS),
		RateBurst:  cfg.Server.RateLimitBurst,
		Timeout:    time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORSConfig: middleware.DefaultCORSConfig(),
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
