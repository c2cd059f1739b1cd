package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

var (
	manageGuildPerm     = int64(discordgo.PermissionManageServer)
	moderateMembersPerm = int64(discordgo.PermissionModerateMembers)
)

func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:                     "automod",
			Description:              "Configure automated moderation",
			DefaultMemberPermissions: &manageGuildPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "status", Description: "Show the current configuration"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "enable", Description: "Enable automated moderation"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "disable", Description: "Disable automated moderation"},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "logchannel", Description: "Set the moderation log channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Log channel", Required: true},
					},
				},
			},
		},
		{
			Name:                     "warn",
			Description:              "Warn a user",
			DefaultMemberPermissions: &moderateMembersPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to warn", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Reason", Required: true},
			},
		},
		{
			Name:                     "warnings",
			Description:              "List a user's warnings",
			DefaultMemberPermissions: &moderateMembersPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User", Required: true},
			},
		},
		{
			Name:                     "unlock",
			Description:              "Lift an active raid lockdown",
			DefaultMemberPermissions: &manageGuildPerm,
		},
	}

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			return fmt.Errorf("register command %s: %w", cmd.Name, err)
		}
	}
	return nil
}

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if interaction.GuildID == "" {
		b.respond(session, interaction, "This command only works in a server.", true)
		return
	}

	ctx := context.Background()
	data := interaction.ApplicationCommandData()
	switch data.Name {
	case "automod":
		b.handleAutomod(ctx, session, interaction, data.Options)
	case "warn":
		b.handleWarn(ctx, session, interaction, data.Options)
	case "warnings":
		b.handleWarnings(ctx, session, interaction, data.Options)
	case "unlock":
		b.handleUnlock(ctx, session, interaction)
	}
}

func (b *Bot) handleAutomod(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		return
	}
	sub := options[0]

	cfg, err := b.store.GetGuildConfig(ctx, interaction.GuildID)
	if err != nil {
		b.logger.Warn("config load failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.respond(session, interaction, "Configuration unavailable right now.", true)
		return
	}

	switch sub.Name {
	case "status":
		state := "disabled"
		if cfg.Enabled {
			state = "enabled"
		}
		lock := "no"
		if b.engine.Locked(interaction.GuildID) {
			lock = "yes"
		}
		embed := &discordgo.MessageEmbed{
			Title: "AutoMod status",
			Color: colorNotice,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "State", Value: state, Inline: true},
				{Name: "Lockdown active", Value: lock, Inline: true},
				{Name: "Spam filter", Value: onOff(cfg.Spam.Enabled), Inline: true},
				{Name: "Word filter", Value: onOff(cfg.Word.Enabled), Inline: true},
				{Name: "Link filter", Value: onOff(cfg.Link.Enabled), Inline: true},
				{Name: "Mention filter", Value: onOff(cfg.Mention.Enabled), Inline: true},
				{Name: "Caps filter", Value: onOff(cfg.Caps.Enabled), Inline: true},
				{Name: "Anti-raid", Value: onOff(cfg.AntiRaid.Enabled), Inline: true},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		b.respondEmbed(session, interaction, embed, true)
	case "enable", "disable":
		cfg.Enabled = sub.Name == "enable"
		if err := b.store.SetGuildConfig(ctx, interaction.GuildID, cfg); err != nil {
			b.logger.Warn("config save failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
			b.respond(session, interaction, "Saving the configuration failed.", true)
			return
		}
		b.respond(session, interaction, "AutoMod "+sub.Name+"d.", true)
	case "logchannel":
		if len(sub.Options) == 0 {
			return
		}
		channel := sub.Options[0].ChannelValue(session)
		if channel == nil {
			b.respond(session, interaction, "Unknown channel.", true)
			return
		}
		cfg.LogChannelID = channel.ID
		if err := b.store.SetGuildConfig(ctx, interaction.GuildID, cfg); err != nil {
			b.logger.Warn("config save failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
			b.respond(session, interaction, "Saving the configuration failed.", true)
			return
		}
		b.respond(session, interaction, "Moderation log channel set to <#"+channel.ID+">.", true)
	}
}

func (b *Bot) handleWarn(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	var user *discordgo.User
	reason := ""
	for _, opt := range options {
		switch opt.Name {
		case "user":
			user = opt.UserValue(session)
		case "reason":
			reason = opt.StringValue()
		}
	}
	if user == nil || reason == "" {
		return
	}

	moderator := "moderator"
	if interaction.Member != nil && interaction.Member.User != nil {
		moderator = interaction.Member.User.Username
	}

	applied, count := b.engine.RecordWarning(ctx, interaction.GuildID, user.ID, reason, moderator)
	text := fmt.Sprintf("Warned <@%s> (%d total).", user.ID, count)
	if applied != "" {
		text += " Escalation applied: " + applied + "."
	}
	b.respond(session, interaction, text, false)
}

func (b *Bot) handleWarnings(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		return
	}
	user := options[0].UserValue(session)
	if user == nil {
		return
	}

	warnings, err := b.store.ListWarnings(ctx, interaction.GuildID, user.ID)
	if err != nil {
		b.logger.Warn("warning list failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.respond(session, interaction, "Warnings unavailable right now.", true)
		return
	}
	if len(warnings) == 0 {
		b.respond(session, interaction, fmt.Sprintf("<@%s> has no warnings.", user.ID), true)
		return
	}

	// Show the most recent entries; the full history stays in the store.
	const maxShown = 10
	start := 0
	if len(warnings) > maxShown {
		start = len(warnings) - maxShown
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Warnings for %s (%d total)", user.Username, len(warnings)),
		Color: colorWarn,
	}
	for i := start; i < len(warnings); i++ {
		w := warnings[i]
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d - %s", i+1, w.CreatedAt.Format("2006-01-02 15:04")),
			Value: fmt.Sprintf("%s (by %s)", w.Reason, w.Moderator),
		})
	}
	b.respondEmbed(session, interaction, embed, true)
}

func (b *Bot) handleUnlock(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if b.engine.Unlock(ctx, interaction.GuildID) {
		b.respond(session, interaction, "Lockdown lifted, permissions restored.", false)
		return
	}
	b.respond(session, interaction, "No active lockdown.", true)
}

func (b *Bot) respond(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: flags},
	})
	if err != nil {
		b.logger.Debug("interaction respond failed", zap.Error(err))
	}
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}, Flags: flags},
	})
	if err != nil {
		b.logger.Debug("interaction respond failed", zap.Error(err))
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
