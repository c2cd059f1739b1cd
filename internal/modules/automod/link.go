package automod

import (
	"strings"

	"warden/internal/moderation"
	"warden/internal/utils"
)

// checkLinks flags invite links unconditionally when BlockInvites is set,
// then, when BlockAllLinks is set, any URL whose normalized form matches no
// whitelist substring.
func checkLinks(msg moderation.Message, cfg moderation.LinkFilter) (moderation.Verdict, bool) {
	if !cfg.Enabled {
		return moderation.Verdict{}, false
	}

	if cfg.BlockInvites && utils.ContainsInvite(msg.Content) {
		return linkVerdict("invite", cfg), true
	}

	if cfg.BlockAllLinks {
		for _, raw := range utils.ExtractURLs(msg.Content) {
			candidate := strings.ToLower(raw)
			if normalized, _, err := utils.NormalizeURL(raw); err == nil {
				candidate = strings.ToLower(normalized)
			}
			if !whitelisted(candidate, cfg.Whitelist) {
				return linkVerdict("link", cfg), true
			}
		}
	}

	return moderation.Verdict{}, false
}

func whitelisted(url string, whitelist []string) bool {
	for _, entry := range whitelist {
		if entry == "" {
			continue
		}
		if strings.Contains(url, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}

func linkVerdict(signal string, cfg moderation.LinkFilter) moderation.Verdict {
	return moderation.Verdict{
		Filter: "link_filter",
		Signal: signal,
		Reason: "Blocked link (" + signal + ")",
		Warn:   cfg.Action == moderation.ActionDeleteWarn,
	}
}
