package bot

import (
	"context"
	"time"

	"warden/internal/config"
	"warden/internal/engine"
	"warden/internal/modules/audit"
	"warden/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	colorAlert  = 0xed4245
	colorWarn   = 0xffa500
	colorNotice = 0x57f287
)

type Bot struct {
	cfg     config.Config
	logger  *zap.Logger
	store   *storage.Store
	engine  *engine.Engine
	session *discordgo.Session
	done    chan struct{}
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store, auditLogger *audit.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		session: session,
		done:    make(chan struct{}),
	}

	actions := NewActions(session)
	b.engine = engine.New(store.GuildConfigs(), store.Warnings(), actions, auditLogger, logger)
	auditLogger.SetNotifier(b.notifyAudit)

	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onGuildMemberAdd)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		return err
	}

	go b.retentionLoop()

	return nil
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	close(b.done)
	if b.session != nil {
		_ = b.session.Close()
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username))
}

// notifyAudit mirrors audit entries into the guild's configured log channel.
// Failures are swallowed: the channel copy is a convenience, the store and
// process log already have the entry.
func (b *Bot) notifyAudit(ctx context.Context, entry storage.AuditLog) {
	if entry.GuildID == "" {
		return
	}
	cfg, err := b.store.GetGuildConfig(ctx, entry.GuildID)
	if err != nil || cfg.LogChannelID == "" {
		return
	}

	color := colorNotice
	switch entry.Level {
	case "WARN":
		color = colorWarn
	case "CRIT":
		color = colorAlert
	}

	embed := &discordgo.MessageEmbed{
		Title:       "AutoMod: " + entry.Event,
		Description: entry.Details,
		Color:       color,
		Timestamp:   entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.UserID != "" {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "User", Value: "<@" + entry.UserID + ">", Inline: true},
		}
	}
	if _, err := b.session.ChannelMessageSendEmbed(cfg.LogChannelID, embed); err != nil {
		b.logger.Debug("mod log send failed", zap.String("guild_id", entry.GuildID), zap.Error(err))
	}
}

func (b *Bot) retentionLoop() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := b.store.CleanupAuditLogs(ctx, b.cfg.RetentionDays); err != nil {
				b.logger.Warn("audit cleanup failed", zap.Error(err))
			}
			cancel()
		}
	}
}
