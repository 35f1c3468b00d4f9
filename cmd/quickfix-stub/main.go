package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignatzorin/quickfix/internal/config"
	httpRouter "github.com/ignatzorin/quickfix/internal/http/router"
	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/repository"
	"github.com/ignatzorin/quickfix/internal/service"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init(cfg.LogLevel)
	}

	store := repository.NewMarketplaceStore()
	tokenManager := service.NewTokenManager(cfg.Stub.JWTSecret, cfg.Stub.TokenTTL)
	market := service.NewMarketplace(store, tokenManager, "http://localhost:"+cfg.Stub.HTTPPort)
	seedService := service.NewSeedService(store)

	if cfg.Stub.Seed {
		accounts, err := seedService.SeedData(ctx)
		if err != nil {
			log.Fatalf("main: ошибка заполнения демо-данными: %v", err)
		}
		for _, a := range accounts {
			logger.Log.WithField("username", a.Username).Infof("main: демо-аккаунт, пароль %s", a.Password)
		}
	}

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.NewHandlers(market, seedService), tokenManager)

	server := &http.Server{
		Addr:              ":" + cfg.Stub.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: стенд QuickFix запущен на порту %s", cfg.Stub.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}
