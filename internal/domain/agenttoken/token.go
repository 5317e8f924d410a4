// Package agenttoken implements the installation token lifecycle for the
// device-monitoring agent fleet. A token is scoped to one (client, site)
// pair and authorizes an agent to self-register as an asset. Expiry is
// always computed at validation time from expires_at; revocation
// (is_active) is independent, so an expired-but-active token and an
// unexpired-but-deactivated token fail enrollment for distinguishable
// reasons.
package agenttoken

import (
	"fmt"
	"time"

	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/shared/biztime"
	apperrors "helpdesk/internal/shared/errors"
)

// AgentToken is the aggregate root of the installation token lifecycle.
// Tokens are deliberately multi-use: usage_count tracks repeated
// enrollments (reinstall after wipe is a supported flow).
type AgentToken struct {
	id         uint
	value      string
	clientID   uint
	siteID     uint
	notes      string
	isActive   bool
	usageCount int
	version    int
	createdBy  uint
	createdAt  time.Time
	updatedAt  time.Time
	expiresAt  *time.Time
	lastUsedAt *time.Time
	events     []events.DomainEvent
}

// NewAgentToken mints a token for the given scope with a freshly generated
// value. A nil expiresAt means the token never expires.
func NewAgentToken(clientID, siteID uint, expiresAt *time.Time, notes string, createdBy uint) (*AgentToken, error) {
	if clientID == 0 {
		return nil, fmt.Errorf("client ID is required")
	}
	if siteID == 0 {
		return nil, fmt.Errorf("site ID is required")
	}
	if createdBy == 0 {
		return nil, fmt.Errorf("creator ID is required")
	}

	value, err := GenerateTokenValue()
	if err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	t := &AgentToken{
		value:     value,
		clientID:  clientID,
		siteID:    siteID,
		notes:     notes,
		isActive:  true,
		version:   1,
		createdBy: createdBy,
		createdAt: now,
		updatedAt: now,
		expiresAt: expiresAt,
	}

	return t, nil
}

// ReconstructAgentTokenParams carries a persisted token's state.
type ReconstructAgentTokenParams struct {
	ID         uint
	Value      string
	ClientID   uint
	SiteID     uint
	Notes      string
	IsActive   bool
	UsageCount int
	Version    int
	CreatedBy  uint
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
}

func ReconstructAgentToken(p ReconstructAgentTokenParams) (*AgentToken, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("token ID cannot be zero")
	}
	if !IsValidTokenValue(p.Value) {
		return nil, fmt.Errorf("invalid token value format: %s", MaskTokenValue(p.Value))
	}
	if p.ClientID == 0 || p.SiteID == 0 {
		return nil, fmt.Errorf("token scope is required")
	}
	if p.Version <= 0 {
		return nil, fmt.Errorf("version must be positive")
	}

	return &AgentToken{
		id:         p.ID,
		value:      p.Value,
		clientID:   p.ClientID,
		siteID:     p.SiteID,
		notes:      p.Notes,
		isActive:   p.IsActive,
		usageCount: p.UsageCount,
		version:    p.Version,
		createdBy:  p.CreatedBy,
		createdAt:  p.CreatedAt,
		updatedAt:  p.UpdatedAt,
		expiresAt:  p.ExpiresAt,
		lastUsedAt: p.LastUsedAt,
	}, nil
}

func (t *AgentToken) ID() uint               { return t.id }
func (t *AgentToken) Value() string          { return t.value }
func (t *AgentToken) ClientID() uint         { return t.clientID }
func (t *AgentToken) SiteID() uint           { return t.siteID }
func (t *AgentToken) Notes() string          { return t.notes }
func (t *AgentToken) IsActive() bool         { return t.isActive }
func (t *AgentToken) UsageCount() int        { return t.usageCount }
func (t *AgentToken) Version() int           { return t.version }
func (t *AgentToken) CreatedBy() uint        { return t.createdBy }
func (t *AgentToken) CreatedAt() time.Time   { return t.createdAt }
func (t *AgentToken) UpdatedAt() time.Time   { return t.updatedAt }
func (t *AgentToken) ExpiresAt() *time.Time  { return t.expiresAt }
func (t *AgentToken) LastUsedAt() *time.Time { return t.lastUsedAt }

func (t *AgentToken) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("token ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("token ID cannot be zero")
	}
	t.id = id
	return nil
}

// IsExpired computes expiry at the given instant. The boundary is
// inclusive: a token whose expires_at equals now is already expired.
func (t *AgentToken) IsExpired(now time.Time) bool {
	if t.expiresAt == nil {
		return false
	}
	return !now.Before(*t.expiresAt)
}

// ValidateForEnrollment checks the token against the given instant.
// Revocation is reported before expiry so operators see the deliberate
// deactivation rather than a coincidental expiry.
func (t *AgentToken) ValidateForEnrollment(now time.Time) error {
	if !t.isActive {
		return apperrors.NewTokenInactiveError(
			"installation token has been deactivated",
			fmt.Sprintf("token %s", MaskTokenValue(t.value)),
		)
	}
	if t.IsExpired(now) {
		return apperrors.NewTokenExpiredError(
			"installation token has expired",
			fmt.Sprintf("token %s expired at %s", MaskTokenValue(t.value), t.expiresAt.UTC().Format(time.RFC3339)),
		)
	}
	return nil
}

// RecordUsage counts one successful enrollment. Failed attempts never
// reach this method; they are captured by the usage-history log only.
func (t *AgentToken) RecordUsage() {
	now := biztime.NowUTC()
	t.usageCount++
	t.lastUsedAt = &now
	t.updatedAt = now
	t.version++
}

// SetActive toggles revocation, which is independent of expiry.
func (t *AgentToken) SetActive(active bool, changedBy uint) {
	if t.isActive == active {
		return
	}
	now := biztime.NowUTC()
	t.isActive = active
	t.updatedAt = now
	t.version++
	t.recordEvent(NewTokenActivationChangedEvent(t.id, active, changedBy, now))
}

func (t *AgentToken) recordEvent(event events.DomainEvent) {
	t.events = append(t.events, event)
}

// GetEvents returns the domain events recorded since load.
func (t *AgentToken) GetEvents() []events.DomainEvent {
	eventsCopy := make([]events.DomainEvent, len(t.events))
	copy(eventsCopy, t.events)
	return eventsCopy
}

// ClearEvents drops recorded events after they have been dispatched.
func (t *AgentToken) ClearEvents() {
	t.events = nil
}
