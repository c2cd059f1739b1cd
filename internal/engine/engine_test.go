package engine

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"warden/internal/moderation"

	"go.uber.org/zap"
)

type memConfigs struct {
	configs map[string]moderation.Config
}

func (m *memConfigs) Get(ctx context.Context, guildID string) (moderation.Config, error) {
	if cfg, ok := m.configs[guildID]; ok {
		return cfg, nil
	}
	return moderation.DefaultConfig(), nil
}

func (m *memConfigs) Set(ctx context.Context, guildID string, cfg moderation.Config) error {
	m.configs[guildID] = cfg
	return nil
}

type memWarnings struct {
	mu      sync.Mutex
	records map[string][]moderation.Warning
}

func newMemWarnings() *memWarnings {
	return &memWarnings{records: make(map[string][]moderation.Warning)}
}

func (m *memWarnings) Append(ctx context.Context, guildID, userID string, w moderation.Warning) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := guildID + ":" + userID
	m.records[key] = append(m.records[key], w)
	return len(m.records[key]), nil
}

func (m *memWarnings) List(ctx context.Context, guildID, userID string) ([]moderation.Warning, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[guildID+":"+userID], nil
}

func (m *memWarnings) Count(ctx context.Context, guildID, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[guildID+":"+userID]), nil
}

type fakeActions struct {
	deletes  []string
	timeouts []time.Duration
}

func (f *fakeActions) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.deletes = append(f.deletes, channelID+":"+messageID)
	return nil
}

func (f *fakeActions) TimeoutMember(ctx context.Context, guildID, userID string, duration time.Duration, reason string) error {
	f.timeouts = append(f.timeouts, duration)
	return nil
}

func (f *fakeActions) KickMember(ctx context.Context, guildID, userID, reason string) error {
	return nil
}

func (f *fakeActions) BanMember(ctx context.Context, guildID, userID, reason string) error {
	return nil
}

func (f *fakeActions) BaseRolePermissions(ctx context.Context, guildID string) (int64, error) {
	return moderation.SendMessagesBit, nil
}

func (f *fakeActions) SetBaseRolePermissions(ctx context.Context, guildID string, permissions int64, reason string) error {
	return nil
}

func (f *fakeActions) MemberCapabilities(ctx context.Context, guildID, userID string) moderation.Capabilities {
	return moderation.Capabilities{Moderatable: true, Kickable: true, Bannable: true}
}

type auditEntry struct {
	event   string
	details string
}

type fakeAudit struct {
	entries []auditEntry
}

func (f *fakeAudit) Write(ctx context.Context, severity, guildID, userID, event, details string) {
	f.entries = append(f.entries, auditEntry{event: event, details: details})
}

func newTestEngine(cfg moderation.Config) (*Engine, *memWarnings, *fakeActions, *fakeAudit) {
	configs := &memConfigs{configs: map[string]moderation.Config{"g1": cfg}}
	warnings := newMemWarnings()
	actions := &fakeActions{}
	sink := &fakeAudit{}
	return New(configs, warnings, actions, sink, zap.NewNop()), warnings, actions, sink
}

func TestWordFilterEndToEnd(t *testing.T) {
	cfg := moderation.DefaultConfig()
	cfg.Enabled = true
	cfg.Word.Blacklist = []string{"foo"}

	engine, warnings, actions, sink := newTestEngine(cfg)

	engine.HandleMessage(context.Background(), moderation.Message{
		GuildID:   "g1",
		ChannelID: "c1",
		MessageID: "m1",
		UserID:    "u1",
		Content:   "this has foo in it",
	})

	if len(actions.deletes) != 1 || actions.deletes[0] != "c1:m1" {
		t.Fatalf("expected one delete of c1:m1, got %v", actions.deletes)
	}

	list, _ := warnings.List(context.Background(), "g1", "u1")
	if len(list) != 1 {
		t.Fatalf("expected one warning, got %d", len(list))
	}
	if !strings.Contains(list[0].Reason, "Blocked word") {
		t.Fatalf("expected reason to mention blocked word, got %q", list[0].Reason)
	}

	found := false
	for _, entry := range sink.entries {
		if entry.event == "word_filter" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected word_filter audit entry, got %v", sink.entries)
	}
}

func TestImmuneUserSkipsPipeline(t *testing.T) {
	cfg := moderation.DefaultConfig()
	cfg.Enabled = true
	cfg.Word.Blacklist = []string{"foo"}

	engine, warnings, actions, _ := newTestEngine(cfg)

	engine.HandleMessage(context.Background(), moderation.Message{
		GuildID:           "g1",
		ChannelID:         "c1",
		MessageID:         "m1",
		UserID:            "u1",
		Content:           "foo foo foo",
		AuthorPermissions: moderation.AdministratorBit,
	})

	if len(actions.deletes) != 0 {
		t.Fatalf("immune user's message must not be deleted")
	}
	if count, _ := warnings.Count(context.Background(), "g1", "u1"); count != 0 {
		t.Fatalf("immune user must not accumulate warnings, got %d", count)
	}
}

func TestImmuneRoleSkipsPipeline(t *testing.T) {
	cfg := moderation.DefaultConfig()
	cfg.Enabled = true
	cfg.Word.Blacklist = []string{"foo"}
	cfg.ImmuneRoleIDs = []string{"r9"}

	engine, _, actions, _ := newTestEngine(cfg)

	engine.HandleMessage(context.Background(), moderation.Message{
		GuildID:       "g1",
		ChannelID:     "c1",
		MessageID:     "m1",
		UserID:        "u1",
		Content:       "foo",
		AuthorRoleIDs: []string{"r1", "r9"},
	})

	if len(actions.deletes) != 0 {
		t.Fatalf("immune role member's message must not be deleted")
	}
}

func TestDisabledGuildSkipsPipeline(t *testing.T) {
	cfg := moderation.DefaultConfig()
	cfg.Enabled = false
	cfg.Word.Blacklist = []string{"foo"}

	engine, _, actions, _ := newTestEngine(cfg)

	engine.HandleMessage(context.Background(), moderation.Message{
		GuildID: "g1", ChannelID: "c1", MessageID: "m1", UserID: "u1", Content: "foo",
	})

	if len(actions.deletes) != 0 {
		t.Fatalf("disabled guild must not be moderated")
	}
}

func TestMentionSpamMutes(t *testing.T) {
	cfg := moderation.DefaultConfig()
	cfg.Enabled = true
	cfg.Spam.Enabled = false

	engine, warnings, actions, _ := newTestEngine(cfg)

	engine.HandleMessage(context.Background(), moderation.Message{
		GuildID:      "g1",
		ChannelID:    "c1",
		MessageID:    "m1",
		UserID:       "u1",
		Content:      "hey",
		UserMentions: 5,
	})

	if len(actions.timeouts) != 1 || actions.timeouts[0] != 5*time.Minute {
		t.Fatalf("expected one 5m mute, got %v", actions.timeouts)
	}
	if count, _ := warnings.Count(context.Background(), "g1", "u1"); count != 1 {
		t.Fatalf("expected one warning, got %d", count)
	}
}

func TestRaidJoinFlow(t *testing.T) {
	cfg := moderation.DefaultConfig()
	cfg.Enabled = true
	cfg.AntiRaid.Enabled = true
	cfg.AntiRaid.MaxJoins = 3

	engine, _, _, sink := newTestEngine(cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		engine.HandleJoin(ctx, moderation.Join{GuildID: "g1", UserID: "u1"})
	}
	if !engine.Locked("g1") {
		t.Fatalf("expected lockdown after join burst")
	}

	found := false
	for _, entry := range sink.entries {
		if entry.event == "raid_lockdown" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected raid_lockdown audit entry")
	}

	if !engine.Unlock(ctx, "g1") {
		t.Fatalf("expected unlock")
	}
	if engine.Locked("g1") {
		t.Fatalf("expected lockdown cleared")
	}
}
