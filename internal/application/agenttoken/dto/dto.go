package dto

import (
	"time"

	"helpdesk/internal/domain/agenttoken"
)

// AgentTokenDTO is the full token view for the roles that manage tokens.
// List endpoints return MaskedValue instead of the raw value.
type AgentTokenDTO struct {
	ID          uint       `json:"id"`
	Value       string     `json:"token_value,omitempty"`
	MaskedValue string     `json:"masked_value,omitempty"`
	ClientID    uint       `json:"client_id"`
	SiteID      uint       `json:"site_id"`
	IsActive    bool       `json:"is_active"`
	Notes       string     `json:"notes,omitempty"`
	UsageCount  int        `json:"usage_count"`
	CreatedBy   uint       `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	LastUsedAt  *time.Time `json:"last_used_at"`
}

// TokenScopeDTO is the enrollment answer: the scope a valid token binds to.
type TokenScopeDTO struct {
	TokenID  uint `json:"token_id"`
	ClientID uint `json:"client_id"`
	SiteID   uint `json:"site_id"`
}

type UsageAttemptDTO struct {
	TokenID    uint      `json:"token_id"`
	Success    bool      `json:"success"`
	Reason     string    `json:"reason,omitempty"`
	DeviceInfo string    `json:"device_info,omitempty"`
	AttemptAt  time.Time `json:"attempt_at"`
}

// ToAgentTokenDTO maps the aggregate, exposing the raw value only when
// includeValue is set (issuance is the one moment callers see it whole).
func ToAgentTokenDTO(t *agenttoken.AgentToken, includeValue bool) *AgentTokenDTO {
	if t == nil {
		return nil
	}
	d := &AgentTokenDTO{
		ID:          t.ID(),
		MaskedValue: agenttoken.MaskTokenValue(t.Value()),
		ClientID:    t.ClientID(),
		SiteID:      t.SiteID(),
		IsActive:    t.IsActive(),
		Notes:       t.Notes(),
		UsageCount:  t.UsageCount(),
		CreatedBy:   t.CreatedBy(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
		ExpiresAt:   t.ExpiresAt(),
		LastUsedAt:  t.LastUsedAt(),
	}
	if includeValue {
		d.Value = t.Value()
	}
	return d
}

func ToUsageAttemptDTO(a agenttoken.UsageAttempt) UsageAttemptDTO {
	return UsageAttemptDTO{
		TokenID:    a.TokenID,
		Success:    a.Success,
		Reason:     a.Reason,
		DeviceInfo: a.DeviceInfo,
		AttemptAt:  a.AttemptAt,
	}
}
