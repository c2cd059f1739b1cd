package audit

import (
	"context"
	"testing"

	"warden/internal/moderation"
	"warden/internal/storage"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteNotifiesAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewLogger(nil, zap.New(core))

	var got storage.AuditLog
	logger.SetNotifier(func(_ context.Context, entry storage.AuditLog) { got = entry })

	logger.Write(context.Background(), moderation.SeverityCrit, "g1", "u1", "raid_lockdown", "joins=11")

	if got.GuildID != "g1" || got.Event != "raid_lockdown" {
		t.Fatalf("notifier entry = %+v", got)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level for CRIT audit, got %v", entries[0].Level)
	}
}

func TestLogLevelMapping(t *testing.T) {
	cases := map[string]zapcore.Level{
		moderation.SeverityInfo: zapcore.InfoLevel,
		moderation.SeverityWarn: zapcore.WarnLevel,
		moderation.SeverityCrit: zapcore.ErrorLevel,
		"unknown":               zapcore.InfoLevel,
	}
	for severity, want := range cases {
		if got := logLevel(severity); got != want {
			t.Fatalf("logLevel(%q) = %v, want %v", severity, got, want)
		}
	}
}
