package escalate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"warden/internal/moderation"

	"go.uber.org/zap"
)

// Engine appends warnings and applies the escalation policy. The append is
// atomic in the store and returns the total, so the count always reflects
// prior appends from the same evaluation. Punitive actions are best-effort:
// a failed mute/kick/ban is logged and processing continues.
type Engine struct {
	warnings moderation.WarningStore
	actions  moderation.ActionPort
	audit    moderation.AuditSink
	logger   *zap.Logger
}

func New(warnings moderation.WarningStore, actions moderation.ActionPort, audit moderation.AuditSink, logger *zap.Logger) *Engine {
	return &Engine{warnings: warnings, actions: actions, audit: audit, logger: logger}
}

// RecordWarning appends one warning for (guildID, userID), then evaluates the
// escalation thresholds against the new total. The single highest threshold
// with Warns <= total fires; lower ones do not additionally fire. Returns the
// applied action ("" when none) and the new total.
func (e *Engine) RecordWarning(ctx context.Context, guildID, userID, reason, moderator string, cfg moderation.Escalation) (string, int) {
	if moderator == "" {
		moderator = "AutoMod"
	}
	count, err := e.warnings.Append(ctx, guildID, userID, moderation.Warning{
		Reason:    reason,
		Moderator: moderator,
		CreatedAt: time.Now(),
	})
	if err != nil {
		e.logger.Warn("warning append failed", zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		return "", 0
	}

	if !cfg.Enabled || len(cfg.Thresholds) == 0 {
		return "", count
	}

	threshold, ok := highestQualifying(cfg.Thresholds, count)
	if !ok {
		return "", count
	}

	applied := e.apply(ctx, guildID, userID, threshold, count)
	if applied != "" {
		detail := fmt.Sprintf("action=%s warnings=%d threshold=%d", applied, count, threshold.Warns)
		e.audit.Write(ctx, moderation.SeverityWarn, guildID, userID, "escalation", detail)
	}
	return applied, count
}

func highestQualifying(thresholds []moderation.Threshold, count int) (moderation.Threshold, bool) {
	sorted := make([]moderation.Threshold, len(thresholds))
	copy(sorted, thresholds)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Warns > sorted[j].Warns
	})
	for _, t := range sorted {
		if count >= t.Warns {
			return t, true
		}
	}
	return moderation.Threshold{}, false
}

func (e *Engine) apply(ctx context.Context, guildID, userID string, t moderation.Threshold, count int) string {
	caps := e.actions.MemberCapabilities(ctx, guildID, userID)
	reason := fmt.Sprintf("AutoMod: %d warnings", count)

	switch t.Action {
	case moderation.ActionMute:
		if !caps.Moderatable {
			return ""
		}
		minutes := t.DurationMinutes
		if minutes <= 0 {
			minutes = 60
		}
		if err := e.actions.TimeoutMember(ctx, guildID, userID, time.Duration(minutes)*time.Minute, reason); err != nil {
			e.logger.Warn("escalation mute failed", zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
			return ""
		}
		return moderation.ActionMute
	case moderation.ActionKick:
		if !caps.Kickable {
			return ""
		}
		if err := e.actions.KickMember(ctx, guildID, userID, reason); err != nil {
			e.logger.Warn("escalation kick failed", zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
			return ""
		}
		return moderation.ActionKick
	case moderation.ActionBan:
		if !caps.Bannable {
			return ""
		}
		if err := e.actions.BanMember(ctx, guildID, userID, reason); err != nil {
			e.logger.Warn("escalation ban failed", zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
			return ""
		}
		return moderation.ActionBan
	}
	return ""
}
