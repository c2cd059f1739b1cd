package moderation

import (
	"context"
	"time"
)

// Capabilities reports which punitive actions can be applied to a member.
// A false field means the action would be rejected (missing permission or
// role hierarchy), so the caller skips it instead of calling and failing.
type Capabilities struct {
	Moderatable bool
	Kickable    bool
	Bannable    bool
}

// ActionPort is the platform adapter the core drives. Every call is fallible;
// the core logs failures and continues, it never aborts event processing on
// them.
type ActionPort interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	TimeoutMember(ctx context.Context, guildID, userID string, duration time.Duration, reason string) error
	KickMember(ctx context.Context, guildID, userID, reason string) error
	BanMember(ctx context.Context, guildID, userID, reason string) error

	BaseRolePermissions(ctx context.Context, guildID string) (int64, error)
	SetBaseRolePermissions(ctx context.Context, guildID string, permissions int64, reason string) error

	MemberCapabilities(ctx context.Context, guildID, userID string) Capabilities
}

// WarningStore persists warning records. Append is atomic and returns the new
// total for (guildID, userID) so callers never read-modify-write the count.
type WarningStore interface {
	Append(ctx context.Context, guildID, userID string, w Warning) (int, error)
	List(ctx context.Context, guildID, userID string) ([]Warning, error)
	Count(ctx context.Context, guildID, userID string) (int, error)
}

// ConfigStore reads and writes per-guild configuration. Get returns
// DefaultConfig() for guilds that never saved one.
type ConfigStore interface {
	Get(ctx context.Context, guildID string) (Config, error)
	Set(ctx context.Context, guildID string, cfg Config) error
}

// AuditSink receives structured moderation log records. Writes are
// fire-and-forget; implementations swallow their own failures.
type AuditSink interface {
	Write(ctx context.Context, severity, guildID, userID, event, details string)
}

const (
	SeverityInfo = "INFO"
	SeverityWarn = "WARN"
	SeverityCrit = "CRIT"
)
