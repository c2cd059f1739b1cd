package storage

import (
	"context"
	"time"

	"warden/internal/moderation"
)

// AppendWarning inserts one warning and returns the new total for
// (guildID, userID) from the same transaction, so concurrent appends for one
// user never lose updates and a caller always sees its own write in the count.
func (s *Store) AppendWarning(ctx context.Context, guildID, userID string, w moderation.Warning) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	createdAt := w.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO warnings (guild_id, user_id, moderator, reason, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, guildID, userID, w.Moderator, w.Reason, createdAt.Unix())
	if err != nil {
		return 0, err
	}

	var count int
	row := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND user_id = ?
	`, guildID, userID)
	if err = row.Scan(&count); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ListWarnings(ctx context.Context, guildID, userID string) ([]moderation.Warning, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT moderator, reason, created_at
		FROM warnings
		WHERE guild_id = ? AND user_id = ?
		ORDER BY created_at ASC, id ASC
	`, guildID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []moderation.Warning
	for rows.Next() {
		var w moderation.Warning
		var created int64
		if err := rows.Scan(&w.Moderator, &w.Reason, &created); err != nil {
			return nil, err
		}
		w.CreatedAt = time.Unix(created, 0)
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

func (s *Store) CountWarnings(ctx context.Context, guildID, userID string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND user_id = ?
	`, guildID, userID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
