package storage

import (
	"context"

	"warden/internal/moderation"
)

// GuildConfigs adapts the store to moderation.ConfigStore.
type GuildConfigs struct{ store *Store }

func (s *Store) GuildConfigs() *GuildConfigs { return &GuildConfigs{store: s} }

func (g *GuildConfigs) Get(ctx context.Context, guildID string) (moderation.Config, error) {
	return g.store.GetGuildConfig(ctx, guildID)
}

func (g *GuildConfigs) Set(ctx context.Context, guildID string, cfg moderation.Config) error {
	return g.store.SetGuildConfig(ctx, guildID, cfg)
}

// Warnings adapts the store to moderation.WarningStore.
type Warnings struct{ store *Store }

func (s *Store) Warnings() *Warnings { return &Warnings{store: s} }

func (w *Warnings) Append(ctx context.Context, guildID, userID string, rec moderation.Warning) (int, error) {
	return w.store.AppendWarning(ctx, guildID, userID, rec)
}

func (w *Warnings) List(ctx context.Context, guildID, userID string) ([]moderation.Warning, error) {
	return w.store.ListWarnings(ctx, guildID, userID)
}

func (w *Warnings) Count(ctx context.Context, guildID, userID string) (int, error) {
	return w.store.CountWarnings(ctx, guildID, userID)
}
