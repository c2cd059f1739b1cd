package automod

import (
	"time"

	"warden/internal/moderation"
)

// checkMentions flags when the combined user and role mention count reaches
// MaxMentions (inclusive).
func checkMentions(msg moderation.Message, cfg moderation.MentionFilter) (moderation.Verdict, bool) {
	if !cfg.Enabled || cfg.MaxMentions <= 0 {
		return moderation.Verdict{}, false
	}

	if msg.UserMentions+msg.RoleMentions < cfg.MaxMentions {
		return moderation.Verdict{}, false
	}

	minutes := cfg.MuteMinutes
	if minutes <= 0 {
		minutes = 5
	}
	return moderation.Verdict{
		Filter:  "mention_spam",
		Signal:  "mentions",
		Reason:  "Mention spam",
		MuteFor: time.Duration(minutes) * time.Minute,
		Warn:    true,
	}, true
}
