package moderation

import "time"

// SendMessagesBit is the send-messages bit in the platform permission
// bitmask, denied on the base role during a lockdown.
const SendMessagesBit int64 = 1 << 11

// Administrator-level bits that make a member immune to automated filters.
const (
	AdministratorBit int64 = 1 << 3
	ManageGuildBit   int64 = 1 << 5
)

// Message is an inbound guild message event.
type Message struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Content   string

	UserMentions int
	RoleMentions int

	AuthorPermissions int64
	AuthorRoleIDs     []string
}

// Join is an inbound member-join event.
type Join struct {
	GuildID string
	UserID  string
}

// Verdict is the outcome of a filter match. At most one verdict is actioned
// per message.
type Verdict struct {
	Filter string
	Signal string
	Reason string

	// MuteFor, when positive, requests an immediate timed mute on top of the
	// message deletion. Only the spam and mention filters set it.
	MuteFor time.Duration

	// Warn requests a warning append (and escalation check) for the author.
	Warn bool
}

// Warning is one appended warning record.
type Warning struct {
	Reason    string
	Moderator string
	CreatedAt time.Time
}

// Immune reports whether the author of msg is exempt from every filter:
// administrator or manage-guild permission, or membership in a configured
// immune role.
func Immune(msg Message, cfg Config) bool {
	if msg.AuthorPermissions&(AdministratorBit|ManageGuildBit) != 0 {
		return true
	}
	if len(cfg.ImmuneRoleIDs) == 0 {
		return false
	}
	for _, roleID := range msg.AuthorRoleIDs {
		for _, immune := range cfg.ImmuneRoleIDs {
			if roleID == immune {
				return true
			}
		}
	}
	return false
}
