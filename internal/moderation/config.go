package moderation

// Config is the per-guild moderation configuration. It is loaded as an
// immutable snapshot before each evaluation and only mutated through an
// explicit admin update, never by the detectors.
type Config struct {
	Enabled       bool     `json:"enabled"`
	LogChannelID  string   `json:"log_channel_id,omitempty"`
	ImmuneRoleIDs []string `json:"immune_role_ids,omitempty"`

	Spam       SpamFilter    `json:"spam_filter"`
	Word       WordFilter    `json:"word_filter"`
	Link       LinkFilter    `json:"link_filter"`
	Mention    MentionFilter `json:"mention_spam"`
	Caps       CapsFilter    `json:"caps_filter"`
	AntiRaid   AntiRaid      `json:"anti_raid"`
	Escalation Escalation    `json:"escalation"`
}

type SpamFilter struct {
	Enabled            bool   `json:"enabled"`
	MaxMessages        int    `json:"max_messages"`
	WindowMillis       int    `json:"time_window_ms"`
	DuplicateThreshold int    `json:"duplicate_threshold"`
	Action             string `json:"action"`
	MuteMinutes        int    `json:"mute_minutes"`
}

type WordFilter struct {
	Enabled   bool     `json:"enabled"`
	Blacklist []string `json:"blacklist"`
	Action    string   `json:"action"`
}

type LinkFilter struct {
	Enabled       bool     `json:"enabled"`
	BlockInvites  bool     `json:"block_invites"`
	BlockAllLinks bool     `json:"block_all_links"`
	Whitelist     []string `json:"whitelist"`
	Action        string   `json:"action"`
}

type MentionFilter struct {
	Enabled     bool   `json:"enabled"`
	MaxMentions int    `json:"max_mentions"`
	Action      string `json:"action"`
	MuteMinutes int    `json:"mute_minutes"`
}

type CapsFilter struct {
	Enabled        bool   `json:"enabled"`
	MaxCapsPercent int    `json:"max_caps_percent"`
	MinLength      int    `json:"min_length"`
	Action         string `json:"action"`
}

type AntiRaid struct {
	Enabled         bool `json:"enabled"`
	MaxJoins        int  `json:"max_joins"`
	WindowSeconds   int  `json:"window_seconds"`
	LockdownSeconds int  `json:"lockdown_seconds"`
}

type Escalation struct {
	Enabled    bool        `json:"enabled"`
	Thresholds []Threshold `json:"thresholds"`
}

// Threshold maps a cumulative warning count to a punitive action. Thresholds
// are evaluated highest-first; only the single highest qualifying rule fires.
type Threshold struct {
	Warns           int    `json:"warns"`
	Action          string `json:"action"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

const (
	ActionMute       = "mute"
	ActionKick       = "kick"
	ActionBan        = "ban"
	ActionDeleteWarn = "delete_warn"
)

// DefaultConfig returns the configuration used for guilds that never saved
// one. All defaults are resolved here, once, rather than at each read site.
func DefaultConfig() Config {
	return Config{
		Enabled: false,
		Spam: SpamFilter{
			Enabled:            true,
			MaxMessages:        5,
			WindowMillis:       5000,
			DuplicateThreshold: 3,
			Action:             ActionMute,
			MuteMinutes:        10,
		},
		Word: WordFilter{
			Enabled:   true,
			Blacklist: []string{},
			Action:    ActionDeleteWarn,
		},
		Link: LinkFilter{
			Enabled:       true,
			BlockInvites:  true,
			BlockAllLinks: false,
			Whitelist:     []string{"youtube.com", "twitter.com", "x.com", "github.com", "imgur.com"},
			Action:        ActionDeleteWarn,
		},
		Mention: MentionFilter{
			Enabled:     true,
			MaxMentions: 5,
			Action:      ActionMute,
			MuteMinutes: 5,
		},
		Caps: CapsFilter{
			Enabled:        true,
			MaxCapsPercent: 70,
			MinLength:      10,
			Action:         ActionDeleteWarn,
		},
		AntiRaid: AntiRaid{
			Enabled:         false,
			MaxJoins:        10,
			WindowSeconds:   30,
			LockdownSeconds: 300,
		},
		Escalation: Escalation{
			Enabled: true,
			Thresholds: []Threshold{
				{Warns: 3, Action: ActionMute, DurationMinutes: 60},
				{Warns: 5, Action: ActionKick},
				{Warns: 7, Action: ActionBan},
			},
		},
	}
}
