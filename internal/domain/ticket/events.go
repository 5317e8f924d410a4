package ticket

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"helpdesk/internal/domain/shared/events"
)

const (
	EventTypeTicketCreated       = "ticket.created"
	EventTypeTicketAssigned      = "ticket.assigned"
	EventTypeTicketStatusChanged = "ticket.status_changed"
	EventTypeTicketResolved      = "ticket.resolved"
	EventTypeTicketReopened      = "ticket.reopened"
	EventTypeTicketClosed        = "ticket.closed"
	EventTypeTicketCancelled     = "ticket.cancelled"
	EventTypeCommentAdded        = "ticket.comment_added"
)

func newBaseEvent(ticketID uint, eventType string, occurredAt time.Time) events.BaseEvent {
	return events.BaseEvent{
		EventID:     uuid.NewString(),
		AggregateID: fmt.Sprintf("%d", ticketID),
		EventType:   eventType,
		OccurredAt:  occurredAt,
	}
}

type TicketCreatedEvent struct {
	events.BaseEvent
	TicketID  uint
	Number    string
	Subject   string
	ClientID  uint
	SiteID    uint
	Priority  string
	CreatedBy uint
}

func NewTicketCreatedEvent(ticketID uint, number, subject string, clientID, siteID uint, priority string, createdBy uint, occurredAt time.Time) TicketCreatedEvent {
	return TicketCreatedEvent{
		BaseEvent: newBaseEvent(ticketID, EventTypeTicketCreated, occurredAt),
		TicketID:  ticketID,
		Number:    number,
		Subject:   subject,
		ClientID:  clientID,
		SiteID:    siteID,
		Priority:  priority,
		CreatedBy: createdBy,
	}
}

type TicketAssignedEvent struct {
	events.BaseEvent
	TicketID   uint
	AssigneeID uint
	AssignedBy uint
	Reassigned bool
}

func NewTicketAssignedEvent(ticketID, assigneeID, assignedBy uint, reassigned bool, occurredAt time.Time) TicketAssignedEvent {
	return TicketAssignedEvent{
		BaseEvent:  newBaseEvent(ticketID, EventTypeTicketAssigned, occurredAt),
		TicketID:   ticketID,
		AssigneeID: assigneeID,
		AssignedBy: assignedBy,
		Reassigned: reassigned,
	}
}

type TicketStatusChangedEvent struct {
	events.BaseEvent
	TicketID  uint
	OldStatus string
	NewStatus string
	ChangedBy uint
}

func NewTicketStatusChangedEvent(ticketID uint, oldStatus, newStatus string, changedBy uint, occurredAt time.Time) TicketStatusChangedEvent {
	return TicketStatusChangedEvent{
		BaseEvent: newBaseEvent(ticketID, EventTypeTicketStatusChanged, occurredAt),
		TicketID:  ticketID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
	}
}

type TicketResolvedEvent struct {
	events.BaseEvent
	TicketID        uint
	Number          string
	ResolutionNotes string
	ResolvedBy      uint
	NotifyEmails    []string
}

func NewTicketResolvedEvent(ticketID uint, number, notes string, resolvedBy uint, notifyEmails []string, occurredAt time.Time) TicketResolvedEvent {
	return TicketResolvedEvent{
		BaseEvent:       newBaseEvent(ticketID, EventTypeTicketResolved, occurredAt),
		TicketID:        ticketID,
		Number:          number,
		ResolutionNotes: notes,
		ResolvedBy:      resolvedBy,
		NotifyEmails:    notifyEmails,
	}
}

type TicketReopenedEvent struct {
	events.BaseEvent
	TicketID     uint
	Number       string
	Reason       string
	ReopenedBy   uint
	NotifyEmails []string
}

func NewTicketReopenedEvent(ticketID uint, number, reason string, reopenedBy uint, notifyEmails []string, occurredAt time.Time) TicketReopenedEvent {
	return TicketReopenedEvent{
		BaseEvent:    newBaseEvent(ticketID, EventTypeTicketReopened, occurredAt),
		TicketID:     ticketID,
		Number:       number,
		Reason:       reason,
		ReopenedBy:   reopenedBy,
		NotifyEmails: notifyEmails,
	}
}

type TicketClosedEvent struct {
	events.BaseEvent
	TicketID uint
	Number   string
	ClosedBy uint
}

func NewTicketClosedEvent(ticketID uint, number string, closedBy uint, occurredAt time.Time) TicketClosedEvent {
	return TicketClosedEvent{
		BaseEvent: newBaseEvent(ticketID, EventTypeTicketClosed, occurredAt),
		TicketID:  ticketID,
		Number:    number,
		ClosedBy:  closedBy,
	}
}

type TicketCancelledEvent struct {
	events.BaseEvent
	TicketID    uint
	Number      string
	CancelledBy uint
}

func NewTicketCancelledEvent(ticketID uint, number string, cancelledBy uint, occurredAt time.Time) TicketCancelledEvent {
	return TicketCancelledEvent{
		BaseEvent:   newBaseEvent(ticketID, EventTypeTicketCancelled, occurredAt),
		TicketID:    ticketID,
		Number:      number,
		CancelledBy: cancelledBy,
	}
}

type CommentAddedEvent struct {
	events.BaseEvent
	TicketID   uint
	CommentID  uint
	AuthorID   uint
	IsInternal bool
}

func NewCommentAddedEvent(ticketID, commentID, authorID uint, isInternal bool, occurredAt time.Time) CommentAddedEvent {
	return CommentAddedEvent{
		BaseEvent:  newBaseEvent(ticketID, EventTypeCommentAdded, occurredAt),
		TicketID:   ticketID,
		CommentID:  commentID,
		AuthorID:   authorID,
		IsInternal: isInternal,
	}
}
