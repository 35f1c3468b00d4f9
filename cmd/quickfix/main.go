package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/quickfix/internal/api"
	"github.com/ignatzorin/quickfix/internal/config"
	"github.com/ignatzorin/quickfix/internal/db"
	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/prefs"
	"github.com/ignatzorin/quickfix/internal/session"
	"github.com/ignatzorin/quickfix/internal/tui"
	"github.com/ignatzorin/quickfix/internal/usecase/account"
	"github.com/ignatzorin/quickfix/internal/usecase/feed"
	"github.com/ignatzorin/quickfix/internal/usecase/mine"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера. Терминал занят интерфейсом, поэтому логи идут в файл.
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init(cfg.LogLevel)
	}
	closeLog, err := logger.SetOutputFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	defer closeLog()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("main: ошибка открытия хранилища настроек: %v", err)
	}
	defer closeStore()

	sess, err := session.Load(ctx, store)
	if err != nil {
		log.Fatalf("main: ошибка чтения сессии: %v", err)
	}

	client := api.NewClient(cfg.APIURL, cfg.HTTPTimeout, sess)

	deps := tui.Deps{
		Gateway: client,
		Session: sess,
		Auth:    account.NewAuthUseCase(client, sess),
		Profile: account.NewProfileUseCase(client, sess),
		Roles:   account.NewRolesUseCase(client),
		Feed:    feed.NewListingUseCase(client, store),
		Mine:    mine.NewListUseCase(client, sess),
	}

	logger.Log.WithField("api_url", cfg.APIURL).Info("main: клиент QuickFix запущен")
	if err := tui.Run(ctx, deps); err != nil {
		logger.Log.WithError(err).Error("main: интерфейс завершился с ошибкой")
		log.Fatalf("main: %v", err)
	}
}

// openStore выбирает хранилище настроек: Postgres, если задан DSN, иначе файл.
// При заданном секрете токен хранится зашифрованным.
func openStore(ctx context.Context, cfg *config.Config) (prefs.Store, func(), error) {
	var (
		store prefs.Store
		done  = func() {}
	)

	if cfg.PrefsDSN != "" {
		conn, err := db.NewPostgres(ctx, cfg.PrefsDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx, conn, prefs.Migrations); err != nil {
			safeClose(conn)
			return nil, nil, err
		}
		store = prefs.NewPostgresStore(conn, cfg.Profile)
		done = func() { safeClose(conn) }
	} else {
		fileStore, err := prefs.NewFileStore(cfg.PrefsPath)
		if err != nil {
			return nil, nil, err
		}
		store = fileStore
	}

	if cfg.PrefsSecret != "" {
		store = prefs.NewSealedStore(store, cfg.PrefsSecret, prefs.KeyAuthToken)
	}
	return store, done, nil
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.Log.WithError(err).Warn("main: ошибка закрытия базы")
	}
}
