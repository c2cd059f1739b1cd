package automod

import (
	"strings"
	"time"

	"warden/internal/moderation"
)

// checkSpam flags message bursts and repeated content. Rate is checked first:
// the window count must strictly exceed MaxMessages, so MaxMessages itself is
// allowed. A rate flag returns before the body is pushed into the duplicate
// history.
func (p *Pipeline) checkSpam(msg moderation.Message, cfg moderation.SpamFilter) (moderation.Verdict, bool) {
	if !cfg.Enabled {
		return moderation.Verdict{}, false
	}

	key := msg.GuildID + ":" + msg.UserID
	now := p.clock.Now()
	window := time.Duration(cfg.WindowMillis) * time.Millisecond

	if p.rates.Record(key, "", window, now) > cfg.MaxMessages {
		return spamVerdict("rate", cfg), true
	}

	body := strings.TrimSpace(strings.ToLower(msg.Content))
	recent := p.dupes.Push(key, body)
	if isDuplicateStreak(recent, cfg.DuplicateThreshold) {
		return spamVerdict("duplicate", cfg), true
	}

	return moderation.Verdict{}, false
}

// isDuplicateStreak reports whether the last threshold bodies are identical
// and non-empty.
func isDuplicateStreak(bodies []string, threshold int) bool {
	if threshold <= 0 || len(bodies) < threshold {
		return false
	}
	last := bodies[len(bodies)-threshold:]
	if last[0] == "" {
		return false
	}
	for _, body := range last[1:] {
		if body != last[0] {
			return false
		}
	}
	return true
}

func spamVerdict(signal string, cfg moderation.SpamFilter) moderation.Verdict {
	v := moderation.Verdict{
		Filter: "spam_filter",
		Signal: signal,
		Reason: "Spam detected (" + signal + ")",
		Warn:   true,
	}
	if cfg.Action == moderation.ActionMute {
		minutes := cfg.MuteMinutes
		if minutes <= 0 {
			minutes = 10
		}
		v.MuteFor = time.Duration(minutes) * time.Minute
	}
	return v
}
