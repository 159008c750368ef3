package appdb

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// ConfigStore persists runtime settings as JSON values in app_config.
type ConfigStore struct {
	pool *pgxpool.Pool
}

var _ ports.ConfigStore = (*ConfigStore)(nil)

func NewConfigStore(pool *pgxpool.Pool) *ConfigStore {
	return &ConfigStore{pool: pool}
}

const getConfigQuery = `SELECT value FROM app_config WHERE key = $1`

func (s *ConfigStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value json.RawMessage
	err := s.pool.QueryRow(ctx, getConfigQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConfigKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

const setConfigQuery = `
	INSERT INTO app_config (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

func (s *ConfigStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := s.pool.Exec(ctx, setConfigQuery, key, value)
	return err
}
