package engine

import (
	"context"
	"fmt"

	"warden/internal/moderation"
	"warden/internal/modules/automod"
	"warden/internal/modules/escalate"
	"warden/internal/modules/raid"

	"go.uber.org/zap"
)

// Engine is the single moderation orchestrator for the process. All detector
// and lockdown state is owned here, constructed once at startup and passed by
// handle to the event layer; nothing lives in package-level maps. Event
// handling never propagates a panic or error upward: one user's input cannot
// stop the pipeline for other guilds or users.
type Engine struct {
	configs  moderation.ConfigStore
	actions  moderation.ActionPort
	audit    moderation.AuditSink
	logger   *zap.Logger
	pipeline *automod.Pipeline
	escalate *escalate.Engine
	raid     *raid.Guard
}

func New(configs moderation.ConfigStore, warnings moderation.WarningStore, actions moderation.ActionPort, audit moderation.AuditSink, logger *zap.Logger) *Engine {
	return &Engine{
		configs:  configs,
		actions:  actions,
		audit:    audit,
		logger:   logger,
		pipeline: automod.New(),
		escalate: escalate.New(warnings, actions, audit, logger),
		raid:     raid.New(actions, audit, logger),
	}
}

// HandleMessage runs one inbound message through the filter pipeline and
// applies the side effects of the first matching filter: best-effort delete,
// optional immediate timed mute, warning append with escalation, one audit
// entry.
func (e *Engine) HandleMessage(ctx context.Context, msg moderation.Message) {
	cfg, err := e.configs.Get(ctx, msg.GuildID)
	if err != nil {
		e.logger.Warn("config load failed", zap.String("guild_id", msg.GuildID), zap.Error(err))
		return
	}
	if !cfg.Enabled {
		return
	}
	if moderation.Immune(msg, cfg) {
		return
	}

	verdict, flagged := e.pipeline.Check(msg, cfg)
	if !flagged {
		return
	}

	if err := e.actions.DeleteMessage(ctx, msg.ChannelID, msg.MessageID); err != nil {
		e.logger.Warn("message delete failed",
			zap.String("guild_id", msg.GuildID),
			zap.String("message_id", msg.MessageID),
			zap.Error(err))
	}

	if verdict.MuteFor > 0 {
		caps := e.actions.MemberCapabilities(ctx, msg.GuildID, msg.UserID)
		if caps.Moderatable {
			if err := e.actions.TimeoutMember(ctx, msg.GuildID, msg.UserID, verdict.MuteFor, "AutoMod: "+verdict.Reason); err != nil {
				e.logger.Warn("filter mute failed",
					zap.String("guild_id", msg.GuildID),
					zap.String("user_id", msg.UserID),
					zap.Error(err))
			}
		}
	}

	if verdict.Warn {
		e.escalate.RecordWarning(ctx, msg.GuildID, msg.UserID, verdict.Reason, "", cfg.Escalation)
	}

	detail := fmt.Sprintf("signal=%s channel=%s", verdict.Signal, msg.ChannelID)
	e.audit.Write(ctx, moderation.SeverityWarn, msg.GuildID, msg.UserID, verdict.Filter, detail)
}

// HandleJoin feeds a member-join event to the raid guard.
func (e *Engine) HandleJoin(ctx context.Context, join moderation.Join) {
	cfg, err := e.configs.Get(ctx, join.GuildID)
	if err != nil {
		e.logger.Warn("config load failed", zap.String("guild_id", join.GuildID), zap.Error(err))
		return
	}
	if !cfg.Enabled {
		return
	}
	e.raid.HandleJoin(ctx, join.GuildID, cfg.AntiRaid)
}

// RecordWarning appends a manually issued warning through the same escalation
// path as the automated filters, so manual and automatic warnings share one
// count.
func (e *Engine) RecordWarning(ctx context.Context, guildID, userID, reason, moderator string) (string, int) {
	cfg, err := e.configs.Get(ctx, guildID)
	if err != nil {
		e.logger.Warn("config load failed", zap.String("guild_id", guildID), zap.Error(err))
		return "", 0
	}
	return e.escalate.RecordWarning(ctx, guildID, userID, reason, moderator, cfg.Escalation)
}

// Unlock lifts an active lockdown early. Returns false when the guild was not
// locked down.
func (e *Engine) Unlock(ctx context.Context, guildID string) bool {
	return e.raid.Unlock(ctx, guildID)
}

// Locked reports whether guildID currently has an active lockdown.
func (e *Engine) Locked(guildID string) bool {
	return e.raid.Active(guildID)
}
