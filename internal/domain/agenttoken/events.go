package agenttoken

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"helpdesk/internal/domain/shared/events"
)

const (
	EventTypeTokenIssued            = "agenttoken.issued"
	EventTypeTokenActivationChanged = "agenttoken.activation_changed"
	EventTypeTokenDeleted           = "agenttoken.deleted"
)

func newBaseEvent(tokenID uint, eventType string, occurredAt time.Time) events.BaseEvent {
	return events.BaseEvent{
		EventID:     uuid.NewString(),
		AggregateID: fmt.Sprintf("%d", tokenID),
		EventType:   eventType,
		OccurredAt:  occurredAt,
	}
}

type TokenIssuedEvent struct {
	events.BaseEvent
	TokenID  uint
	ClientID uint
	SiteID   uint
	IssuedBy uint
}

func NewTokenIssuedEvent(tokenID, clientID, siteID, issuedBy uint, occurredAt time.Time) TokenIssuedEvent {
	return TokenIssuedEvent{
		BaseEvent: newBaseEvent(tokenID, EventTypeTokenIssued, occurredAt),
		TokenID:   tokenID,
		ClientID:  clientID,
		SiteID:    siteID,
		IssuedBy:  issuedBy,
	}
}

type TokenActivationChangedEvent struct {
	events.BaseEvent
	TokenID   uint
	IsActive  bool
	ChangedBy uint
}

func NewTokenActivationChangedEvent(tokenID uint, isActive bool, changedBy uint, occurredAt time.Time) TokenActivationChangedEvent {
	return TokenActivationChangedEvent{
		BaseEvent: newBaseEvent(tokenID, EventTypeTokenActivationChanged, occurredAt),
		TokenID:   tokenID,
		IsActive:  isActive,
		ChangedBy: changedBy,
	}
}

type TokenDeletedEvent struct {
	events.BaseEvent
	TokenID   uint
	DeletedBy uint
}

func NewTokenDeletedEvent(tokenID, deletedBy uint, occurredAt time.Time) TokenDeletedEvent {
	return TokenDeletedEvent{
		BaseEvent: newBaseEvent(tokenID, EventTypeTokenDeleted, occurredAt),
		TokenID:   tokenID,
		DeletedBy: deletedBy,
	}
}
