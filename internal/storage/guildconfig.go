package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"warden/internal/moderation"
)

// GetGuildConfig returns the stored configuration for guildID, or
// moderation.DefaultConfig() when the guild never saved one.
func (s *Store) GetGuildConfig(ctx context.Context, guildID string) (moderation.Config, error) {
	row := s.db.QueryRowContext(ctx, `SELECT config FROM guild_configs WHERE guild_id = ?`, guildID)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return moderation.DefaultConfig(), nil
		}
		return moderation.Config{}, err
	}

	cfg := moderation.DefaultConfig()
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return moderation.Config{}, fmt.Errorf("guild %s config decode: %w", guildID, err)
	}
	return cfg, nil
}

func (s *Store) SetGuildConfig(ctx context.Context, guildID string, cfg moderation.Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO guild_configs (guild_id, config, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			config = excluded.config,
			updated_at = excluded.updated_at
	`, guildID, string(raw), time.Now().Unix())
	return err
}
