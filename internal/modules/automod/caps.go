package automod

import (
	"unicode"

	"warden/internal/moderation"
)

// checkCaps strips non-letters, skips short remainders, and flags when the
// uppercase percentage reaches MaxCapsPercent (boundary inclusive).
func checkCaps(msg moderation.Message, cfg moderation.CapsFilter) (moderation.Verdict, bool) {
	if !cfg.Enabled {
		return moderation.Verdict{}, false
	}

	letters := 0
	upper := 0
	for _, r := range msg.Content {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}

	minLength := cfg.MinLength
	if minLength <= 0 {
		minLength = 10
	}
	if letters < minLength {
		return moderation.Verdict{}, false
	}

	maxPercent := cfg.MaxCapsPercent
	if maxPercent <= 0 {
		maxPercent = 70
	}
	percent := float64(upper) / float64(letters) * 100
	if percent < float64(maxPercent) {
		return moderation.Verdict{}, false
	}

	return moderation.Verdict{
		Filter: "caps_filter",
		Signal: "caps",
		Reason: "Excessive caps",
		Warn:   cfg.Action == moderation.ActionDeleteWarn,
	}, true
}
