package raid

import (
	"context"
	"fmt"
	"sync"
	"time"

	"warden/internal/moderation"
	"warden/internal/utils"

	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

type realTimer struct{ t *time.Timer }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

func (t realTimer) Stop() bool { return t.t.Stop() }

type lockdown struct {
	snapshot int64
	timer    Timer
}

// Guard detects join-rate bursts and drives the per-guild lockdown state
// machine. Entering a lockdown snapshots the base role permission bitmask
// before denying send-messages, and the exit restores that snapshot verbatim.
// A guild holds at most one lockdown at a time; the unlock timer is
// cancellable so a manual unlock never races a stale timer.
type Guard struct {
	mu        sync.Mutex
	joins     *utils.Tracker
	lockdowns map[string]*lockdown
	pending   map[string]struct{}
	actions   moderation.ActionPort
	audit     moderation.AuditSink
	logger    *zap.Logger
	clock     Clock
}

func New(actions moderation.ActionPort, audit moderation.AuditSink, logger *zap.Logger) *Guard {
	return &Guard{
		joins:     utils.NewTracker(),
		lockdowns: make(map[string]*lockdown),
		pending:   make(map[string]struct{}),
		actions:   actions,
		audit:     audit,
		logger:    logger,
		clock:     realClock{},
	}
}

func (g *Guard) WithClock(clock Clock) {
	g.clock = clock
}

// HandleJoin records one member join and triggers a lockdown when the window
// count reaches MaxJoins. A join while the guild is already locked down does
// not re-arm the timer or re-capture permissions. Returns true when this join
// started a lockdown.
func (g *Guard) HandleJoin(ctx context.Context, guildID string, cfg moderation.AntiRaid) bool {
	if !cfg.Enabled {
		return false
	}

	window := time.Duration(cfg.WindowSeconds) * time.Second
	if window <= 0 {
		window = 30 * time.Second
	}
	maxJoins := cfg.MaxJoins
	if maxJoins <= 0 {
		maxJoins = 10
	}

	count := g.joins.Record(guildID, "", window, g.clock.Now())
	if count < maxJoins {
		return false
	}

	// The pending set holds the re-entrancy guard while the permission calls
	// run without the mutex. The guild only becomes visible to Unlock once
	// the snapshot is stored, so an early unlock can never restore a
	// half-built entry.
	g.mu.Lock()
	if _, active := g.lockdowns[guildID]; active {
		g.mu.Unlock()
		return false
	}
	if _, busy := g.pending[guildID]; busy {
		g.mu.Unlock()
		return false
	}
	g.pending[guildID] = struct{}{}
	g.mu.Unlock()

	snapshot, err := g.actions.BaseRolePermissions(ctx, guildID)
	if err != nil {
		g.abort(guildID)
		g.logger.Warn("lockdown aborted: permission snapshot failed", zap.String("guild_id", guildID), zap.Error(err))
		return false
	}

	if err := g.actions.SetBaseRolePermissions(ctx, guildID, snapshot&^moderation.SendMessagesBit, "AutoMod: Raid detected - lockdown"); err != nil {
		g.abort(guildID)
		g.logger.Warn("lockdown aborted: permission update failed", zap.String("guild_id", guildID), zap.Error(err))
		return false
	}

	duration := time.Duration(cfg.LockdownSeconds) * time.Second
	if duration <= 0 {
		duration = 300 * time.Second
	}

	g.mu.Lock()
	delete(g.pending, guildID)
	g.lockdowns[guildID] = &lockdown{
		snapshot: snapshot,
		timer: g.clock.AfterFunc(duration, func() {
			g.expire(guildID)
		}),
	}
	g.mu.Unlock()

	detail := fmt.Sprintf("joins=%d window=%ds lockdown=%ds", count, cfg.WindowSeconds, cfg.LockdownSeconds)
	g.audit.Write(ctx, moderation.SeverityCrit, guildID, "", "raid_lockdown", detail)
	g.logger.Warn("raid lockdown activated", zap.String("guild_id", guildID), zap.Int("joins", count))
	return true
}

// Active reports whether guildID is currently locked down.
func (g *Guard) Active(guildID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, active := g.lockdowns[guildID]
	return active
}

// Unlock ends a lockdown early: it cancels the pending timer and restores the
// snapshot. Returns false when the guild was not locked down.
func (g *Guard) Unlock(ctx context.Context, guildID string) bool {
	g.mu.Lock()
	ld, active := g.lockdowns[guildID]
	if !active {
		g.mu.Unlock()
		return false
	}
	if ld.timer != nil {
		ld.timer.Stop()
	}
	delete(g.lockdowns, guildID)
	g.mu.Unlock()

	g.restore(ctx, guildID, ld.snapshot, "AutoMod: Lockdown lifted manually")
	return true
}

// expire is the timer callback. It no-ops when the lockdown was already
// removed by a manual unlock.
func (g *Guard) expire(guildID string) {
	g.mu.Lock()
	ld, active := g.lockdowns[guildID]
	if !active {
		g.mu.Unlock()
		return
	}
	delete(g.lockdowns, guildID)
	g.mu.Unlock()

	g.restore(context.Background(), guildID, ld.snapshot, "AutoMod: Lockdown ended - permissions restored")
}

func (g *Guard) restore(ctx context.Context, guildID string, snapshot int64, reason string) {
	if err := g.actions.SetBaseRolePermissions(ctx, guildID, snapshot, reason); err != nil {
		g.logger.Error("lockdown restore failed", zap.String("guild_id", guildID), zap.Error(err))
		g.audit.Write(ctx, moderation.SeverityCrit, guildID, "", "raid_lockdown", "restore failed: "+err.Error())
		return
	}
	g.audit.Write(ctx, moderation.SeverityInfo, guildID, "", "raid_lockdown", "lockdown ended, permissions restored")
	g.logger.Info("lockdown ended", zap.String("guild_id", guildID))
}

func (g *Guard) abort(guildID string) {
	g.mu.Lock()
	delete(g.pending, guildID)
	g.mu.Unlock()
}
