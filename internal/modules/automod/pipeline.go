package automod

import (
	"time"

	"warden/internal/moderation"
	"warden/internal/utils"
)

// duplicateHistory is how many recent message bodies are retained per user
// for duplicate detection.
const duplicateHistory = 10

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Pipeline evaluates the filters in a fixed order with first-match-wins
// semantics: spam, word, link, mention, caps. Spam is the cheapest and most
// urgent signal; content-based word/link matches win over generic caps
// formatting complaints. Rate and duplicate state lives here and resets on
// restart.
type Pipeline struct {
	rates *utils.Tracker
	dupes *utils.Ring
	clock Clock
}

func New() *Pipeline {
	return &Pipeline{
		rates: utils.NewTracker(),
		dupes: utils.NewRing(duplicateHistory),
		clock: realClock{},
	}
}

func (p *Pipeline) WithClock(clock Clock) {
	p.clock = clock
}

// Check runs the filters against one message. It returns at most one verdict;
// callers apply the side effects. Immunity is the caller's concern and is
// decided before any filter runs.
func (p *Pipeline) Check(msg moderation.Message, cfg moderation.Config) (moderation.Verdict, bool) {
	if v, ok := p.checkSpam(msg, cfg.Spam); ok {
		return v, true
	}
	if v, ok := checkWords(msg, cfg.Word); ok {
		return v, true
	}
	if v, ok := checkLinks(msg, cfg.Link); ok {
		return v, true
	}
	if v, ok := checkMentions(msg, cfg.Mention); ok {
		return v, true
	}
	if v, ok := checkCaps(msg, cfg.Caps); ok {
		return v, true
	}
	return moderation.Verdict{}, false
}
