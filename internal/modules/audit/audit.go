package audit

import (
	"context"
	"time"

	"warden/internal/moderation"
	"warden/internal/storage"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the audit sink: every entry goes to the store and the process
// log, and optionally to a per-guild notifier (the bot wires one that posts
// to the configured log channel). Writes are fire-and-forget.
type Logger struct {
	store  *storage.Store
	logger *zap.Logger
	notify func(context.Context, storage.AuditLog)
}

func NewLogger(store *storage.Store, logger *zap.Logger) *Logger {
	return &Logger{store: store, logger: logger}
}

func (l *Logger) SetNotifier(notify func(context.Context, storage.AuditLog)) {
	l.notify = notify
}

func (l *Logger) Write(ctx context.Context, severity, guildID, userID, event, details string) {
	entry := storage.AuditLog{
		GuildID:   guildID,
		UserID:    userID,
		Level:     severity,
		Event:     event,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if l.store != nil {
		_ = l.store.AddAuditLog(ctx, entry)
	}
	if l.notify != nil {
		l.notify(ctx, entry)
	}
	l.logger.Log(logLevel(severity), "audit",
		zap.String("severity", severity),
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("event", event),
		zap.String("details", details))
}

// logLevel maps an audit severity onto the process log so CRIT entries
// surface in error-level filters.
func logLevel(severity string) zapcore.Level {
	switch severity {
	case moderation.SeverityCrit:
		return zapcore.ErrorLevel
	case moderation.SeverityWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
