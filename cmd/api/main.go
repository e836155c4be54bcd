package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentHub/cmd/app"
	"contentHub/internal/config"
	"contentHub/pkg/logger"
)

func main() {
	log := logger.New()

	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal().Msg("JWT_SECRET_KEY не установлен в .env файле")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("не удалось запустить приложение")
	}

	go application.Run(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("database", cfg.DB.DbNAME).Msg("сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("получен сигнал остановки")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("ошибка запуска сервера")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ошибка остановки HTTP сервера")
	}
	if err := application.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ошибка освобождения ресурсов")
	}

	log.Info().Msg("сервер остановлен")
}
