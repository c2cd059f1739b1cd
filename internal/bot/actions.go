package bot

import (
	"context"
	"fmt"
	"time"

	"warden/internal/moderation"

	"github.com/bwmarrin/discordgo"
)

// Actions implements moderation.ActionPort on a discordgo session.
type Actions struct {
	session *discordgo.Session
}

func NewActions(session *discordgo.Session) *Actions {
	return &Actions{session: session}
}

func (a *Actions) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	_ = ctx
	return a.session.ChannelMessageDelete(channelID, messageID)
}

func (a *Actions) TimeoutMember(ctx context.Context, guildID, userID string, duration time.Duration, reason string) error {
	_ = ctx
	_ = reason
	until := time.Now().Add(duration)
	return a.session.GuildMemberTimeout(guildID, userID, &until)
}

func (a *Actions) KickMember(ctx context.Context, guildID, userID, reason string) error {
	_ = ctx
	return a.session.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (a *Actions) BanMember(ctx context.Context, guildID, userID, reason string) error {
	_ = ctx
	return a.session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

// BaseRolePermissions returns the permission bitmask of the guild's @everyone
// role. The @everyone role shares the guild's ID.
func (a *Actions) BaseRolePermissions(ctx context.Context, guildID string) (int64, error) {
	_ = ctx
	role, err := a.baseRole(guildID)
	if err != nil {
		return 0, err
	}
	return role.Permissions, nil
}

func (a *Actions) baseRole(guildID string) (*discordgo.Role, error) {
	if role, err := a.session.State.Role(guildID, guildID); err == nil {
		return role, nil
	}
	roles, err := a.session.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild %s roles: %w", guildID, err)
	}
	for _, role := range roles {
		if role.ID == guildID {
			return role, nil
		}
	}
	return nil, fmt.Errorf("guild %s: base role not found", guildID)
}

func (a *Actions) SetBaseRolePermissions(ctx context.Context, guildID string, permissions int64, reason string) error {
	_ = ctx
	_ = reason
	_, err := a.session.GuildRoleEdit(guildID, guildID, &discordgo.RoleParams{Permissions: &permissions})
	return err
}

// MemberCapabilities reports which punitive actions the bot could apply to
// the target: the bot needs the matching guild permission and the target must
// not be the owner or an administrator. Lookup failures report no
// capabilities, which makes the callers skip the action rather than fail it.
func (a *Actions) MemberCapabilities(ctx context.Context, guildID, userID string) moderation.Capabilities {
	_ = ctx
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		return moderation.Capabilities{}
	}
	if guild.OwnerID == userID {
		return moderation.Capabilities{}
	}

	target, err := a.member(guildID, userID)
	if err != nil {
		return moderation.Capabilities{}
	}
	if rolePermissions(guild, target.Roles)&discordgo.PermissionAdministrator != 0 {
		return moderation.Capabilities{}
	}

	self, err := a.member(guildID, a.session.State.User.ID)
	if err != nil {
		return moderation.Capabilities{}
	}
	botPerms := rolePermissions(guild, self.Roles)
	if botPerms&discordgo.PermissionAdministrator != 0 {
		return moderation.Capabilities{Moderatable: true, Kickable: true, Bannable: true}
	}
	return moderation.Capabilities{
		Moderatable: botPerms&discordgo.PermissionModerateMembers != 0,
		Kickable:    botPerms&discordgo.PermissionKickMembers != 0,
		Bannable:    botPerms&discordgo.PermissionBanMembers != 0,
	}
}

func (a *Actions) member(guildID, userID string) (*discordgo.Member, error) {
	if member, err := a.session.State.Member(guildID, userID); err == nil {
		return member, nil
	}
	member, err := a.session.GuildMember(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("member %s lookup: %w", userID, err)
	}
	return member, nil
}

// rolePermissions ORs the permissions of the member's roles plus @everyone.
func rolePermissions(guild *discordgo.Guild, roleIDs []string) int64 {
	var perms int64
	for _, role := range guild.Roles {
		if role.ID == guild.ID {
			perms |= role.Permissions
			continue
		}
		for _, id := range roleIDs {
			if role.ID == id {
				perms |= role.Permissions
				break
			}
		}
	}
	return perms
}
