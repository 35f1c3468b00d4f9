package prefs

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/quickfix/internal/db"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

// Migrations: схема таблицы настроек.
var Migrations = []db.Migration{
	{
		Name: "0001_quickfix_prefs",
		SQL: `
			CREATE TABLE IF NOT EXISTS quickfix_prefs (
				profile TEXT NOT NULL,
				key TEXT NOT NULL,
				value TEXT NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (profile, key)
			)
		`,
	},
}

// PostgresStore хранит настройки в таблице quickfix_prefs.
// profile позволяет держать несколько независимых наборов в одной базе.
type PostgresStore struct {
	db      *sqlx.DB
	profile string
}

func NewPostgresStore(conn *sqlx.DB, profile string) *PostgresStore {
	return &PostgresStore{db: conn, profile: profile}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		`SELECT value FROM quickfix_prefs WHERE profile = $1 AND key = $2`, s.profile, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось прочитать настройку")
	}
	return value, true, nil
}

func (s *PostgresStore) Update(ctx context.Context, set map[string]string, remove []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось начать транзакцию")
	}
	defer tx.Rollback()

	if len(remove) > 0 {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM quickfix_prefs WHERE profile = $1 AND key = ANY($2)`, s.profile, pq.Array(remove))
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось удалить настройки")
		}
	}

	for key, value := range set {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO quickfix_prefs (profile, key, value)
			VALUES ($1, $2, $3)
			ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		`, s.profile, key, value)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось сохранить настройку")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось зафиксировать настройки")
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM quickfix_prefs WHERE profile = $1`, s.profile); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось очистить настройки")
	}
	return nil
}
