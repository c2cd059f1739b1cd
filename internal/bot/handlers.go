package bot

import (
	"context"

	"warden/internal/moderation"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.Author.Bot {
		return
	}
	if msg.GuildID == "" {
		return
	}

	var perms int64
	if computed, err := session.State.MessagePermissions(msg.Message); err == nil {
		perms = computed
	}

	var roleIDs []string
	if msg.Member != nil {
		roleIDs = msg.Member.Roles
	}

	b.engine.HandleMessage(context.Background(), moderation.Message{
		GuildID:           msg.GuildID,
		ChannelID:         msg.ChannelID,
		MessageID:         msg.ID,
		UserID:            msg.Author.ID,
		Content:           msg.Content,
		UserMentions:      len(msg.Mentions),
		RoleMentions:      len(msg.MentionRoles),
		AuthorPermissions: perms,
		AuthorRoleIDs:     roleIDs,
	})
}

func (b *Bot) onGuildMemberAdd(session *discordgo.Session, event *discordgo.GuildMemberAdd) {
	_ = session
	if event.Member == nil || event.Member.GuildID == "" {
		return
	}

	userID := ""
	if event.Member.User != nil {
		userID = event.Member.User.ID
	}

	b.engine.HandleJoin(context.Background(), moderation.Join{
		GuildID: event.Member.GuildID,
		UserID:  userID,
	})
}
