package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-tracker/internal/adapters"
	"github.com/example/room-tracker/internal/application"
	"github.com/example/room-tracker/internal/config"
	httptransport "github.com/example/room-tracker/internal/http"
	"github.com/example/room-tracker/internal/logging"
	"github.com/example/room-tracker/internal/mail"
	"github.com/example/room-tracker/internal/persistence/sqlite"
)

func main() {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := func() string { return uuid.NewString() }
	now := time.Now

	userStore := adapters.NewUserStore(storage.Users)
	roomStore := adapters.NewRoomStore(storage.Rooms)
	reservationStore := adapters.NewReservationStore(storage.Reservations)

	var notifier application.Notifier = mail.NopMailer{}
	if cfg.SMTP.Host != "" {
		notifier = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	authService := application.NewAuthServiceWithLogger(userStore, nil, logger)
	reservationService := application.NewReservationServiceWithLogger(
		reservationStore, roomStore, userStore, notifier,
		idGenerator, now, cfg.DeleteWindow, logger,
	)
	roomService := application.NewRoomServiceWithLogger(roomStore, idGenerator, now, logger)
	provisionService := application.NewProvisionServiceWithLogger(userStore, nil, idGenerator, now, logger)

	if cfg.SeedFile != "" {
		if err := provisionFromFile(ctx, provisionService, cfg.SeedFile, logger); err != nil {
			logger.Error("failed to provision seed accounts", "error", err)
			os.Exit(1)
		}
	}

	authHandler := httptransport.NewAuthHandler(authService, logger)
	reservationHandler := httptransport.NewReservationHandler(reservationService, logger)
	roomHandler := httptransport.NewRoomHandler(roomService, logger)
	provisionHandler := httptransport.NewProvisionHandler(provisionService, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         authHandler,
		Reservations: reservationHandler,
		Rooms:        roomHandler,
		Provision:    provisionHandler,
	})

	protected := httptransport.RequireIdentity(userStore, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Path, "/login") {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("room tracker API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
