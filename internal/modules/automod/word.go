package automod

import (
	"strings"

	"warden/internal/moderation"
)

// checkWords does a case-insensitive substring match against the configured
// blacklist. The first matching entry flags.
func checkWords(msg moderation.Message, cfg moderation.WordFilter) (moderation.Verdict, bool) {
	if !cfg.Enabled || len(cfg.Blacklist) == 0 {
		return moderation.Verdict{}, false
	}

	content := strings.ToLower(msg.Content)
	for _, word := range cfg.Blacklist {
		if word == "" {
			continue
		}
		if strings.Contains(content, strings.ToLower(word)) {
			return moderation.Verdict{
				Filter: "word_filter",
				Signal: "blacklist",
				Reason: "Blocked word/phrase",
				Warn:   cfg.Action == moderation.ActionDeleteWarn,
			}, true
		}
	}
	return moderation.Verdict{}, false
}
