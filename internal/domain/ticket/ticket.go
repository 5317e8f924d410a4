package ticket

import (
	"fmt"
	"strings"
	"time"

	"helpdesk/internal/domain/shared/events"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/biztime"
	apperrors "helpdesk/internal/shared/errors"
)

// Ticket is the aggregate root of the support ticket lifecycle. All status
// transitions go through ApplyTransition, which enforces the transition
// table: authorization first, then payload validation, then side effects.
// Nothing is mutated until every check has passed.
type Ticket struct {
	id              uint
	number          string
	clientID        uint
	siteID          uint
	categoryID      *uint
	subject         string
	description     string
	affectedPerson  string
	contactEmail    string
	contactPhone    string
	additionalEmails []string
	priority        vo.Priority
	status          vo.TicketStatus
	createdBy       uint
	assignedTo      *uint
	resolutionNotes string
	version         int
	createdAt       time.Time
	updatedAt       time.Time
	assignedAt      *time.Time
	resolvedAt      *time.Time
	closedAt        *time.Time
	comments        []*Comment
	events          []events.DomainEvent
}

// NewTicketParams carries the inputs for ticket creation.
type NewTicketParams struct {
	ClientID         uint
	SiteID           uint
	CategoryID       *uint
	Subject          string
	Description      string
	AffectedPerson   string
	ContactEmail     string
	ContactPhone     string
	AdditionalEmails []string
	Priority         vo.Priority
	CreatedBy        uint
}

func NewTicket(p NewTicketParams) (*Ticket, error) {
	if p.ClientID == 0 {
		return nil, fmt.Errorf("client ID is required")
	}
	if p.SiteID == 0 {
		return nil, fmt.Errorf("site ID is required")
	}
	if len(p.Subject) == 0 {
		return nil, fmt.Errorf("subject is required")
	}
	if len(p.Subject) > 200 {
		return nil, fmt.Errorf("subject exceeds maximum length of 200 characters")
	}
	if len(p.Description) == 0 {
		return nil, fmt.Errorf("description is required")
	}
	if len(p.Description) > 5000 {
		return nil, fmt.Errorf("description exceeds maximum length of 5000 characters")
	}
	if len(p.AffectedPerson) == 0 {
		return nil, fmt.Errorf("affected person is required")
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if p.CreatedBy == 0 {
		return nil, fmt.Errorf("creator ID is required")
	}

	now := biztime.NowUTC()

	t := &Ticket{
		clientID:         p.ClientID,
		siteID:           p.SiteID,
		categoryID:       p.CategoryID,
		subject:          p.Subject,
		description:      p.Description,
		affectedPerson:   p.AffectedPerson,
		contactEmail:     p.ContactEmail,
		contactPhone:     p.ContactPhone,
		additionalEmails: normalizeEmails(p.AdditionalEmails),
		priority:         p.Priority,
		status:           vo.StatusNuevo,
		createdBy:        p.CreatedBy,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
		comments:         []*Comment{},
	}

	return t, nil
}

// ReconstructTicketParams carries a persisted ticket's state.
type ReconstructTicketParams struct {
	ID               uint
	Number           string
	ClientID         uint
	SiteID           uint
	CategoryID       *uint
	Subject          string
	Description      string
	AffectedPerson   string
	ContactEmail     string
	ContactPhone     string
	AdditionalEmails []string
	Priority         vo.Priority
	Status           vo.TicketStatus
	CreatedBy        uint
	AssignedTo       *uint
	ResolutionNotes  string
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	AssignedAt       *time.Time
	ResolvedAt       *time.Time
	ClosedAt         *time.Time
}

func ReconstructTicket(p ReconstructTicketParams) (*Ticket, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if len(p.Number) == 0 {
		return nil, fmt.Errorf("ticket number is required")
	}
	if len(p.Subject) == 0 {
		return nil, fmt.Errorf("subject is required")
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}
	if p.Version <= 0 {
		return nil, fmt.Errorf("version must be positive")
	}

	return &Ticket{
		id:               p.ID,
		number:           p.Number,
		clientID:         p.ClientID,
		siteID:           p.SiteID,
		categoryID:       p.CategoryID,
		subject:          p.Subject,
		description:      p.Description,
		affectedPerson:   p.AffectedPerson,
		contactEmail:     p.ContactEmail,
		contactPhone:     p.ContactPhone,
		additionalEmails: normalizeEmails(p.AdditionalEmails),
		priority:         p.Priority,
		status:           p.Status,
		createdBy:        p.CreatedBy,
		assignedTo:       p.AssignedTo,
		resolutionNotes:  p.ResolutionNotes,
		version:          p.Version,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
		assignedAt:       p.AssignedAt,
		resolvedAt:       p.ResolvedAt,
		closedAt:         p.ClosedAt,
		comments:         []*Comment{},
	}, nil
}

func normalizeEmails(emails []string) []string {
	if emails == nil {
		return []string{}
	}
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

func (t *Ticket) ID() uint                  { return t.id }
func (t *Ticket) Number() string            { return t.number }
func (t *Ticket) ClientID() uint            { return t.clientID }
func (t *Ticket) SiteID() uint              { return t.siteID }
func (t *Ticket) CategoryID() *uint         { return t.categoryID }
func (t *Ticket) Subject() string           { return t.subject }
func (t *Ticket) Description() string       { return t.description }
func (t *Ticket) AffectedPerson() string    { return t.affectedPerson }
func (t *Ticket) ContactEmail() string      { return t.contactEmail }
func (t *Ticket) ContactPhone() string      { return t.contactPhone }
func (t *Ticket) Priority() vo.Priority     { return t.priority }
func (t *Ticket) Status() vo.TicketStatus   { return t.status }
func (t *Ticket) CreatedBy() uint           { return t.createdBy }
func (t *Ticket) AssignedTo() *uint         { return t.assignedTo }
func (t *Ticket) ResolutionNotes() string   { return t.resolutionNotes }
func (t *Ticket) Version() int              { return t.version }
func (t *Ticket) CreatedAt() time.Time      { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time      { return t.updatedAt }
func (t *Ticket) AssignedAt() *time.Time    { return t.assignedAt }
func (t *Ticket) ResolvedAt() *time.Time    { return t.resolvedAt }
func (t *Ticket) ClosedAt() *time.Time      { return t.closedAt }

func (t *Ticket) AdditionalEmails() []string {
	emailsCopy := make([]string, len(t.additionalEmails))
	copy(emailsCopy, t.additionalEmails)
	return emailsCopy
}

func (t *Ticket) Comments() []*Comment {
	commentsCopy := make([]*Comment, len(t.comments))
	copy(commentsCopy, t.comments)
	return commentsCopy
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) SetNumber(number string) error {
	if len(t.number) > 0 {
		return fmt.Errorf("ticket number is already set")
	}
	if len(number) == 0 {
		return fmt.Errorf("ticket number cannot be empty")
	}
	t.number = number
	return nil
}

// AuthorizeTransition checks that the edge from the current status to
// newStatus exists and that the actor's role may trigger it. It reads no
// payload, so callers can gate on it before resolving payload-dependent
// collaborators (such as the assignee lookup) without leaking field
// details to unauthorized actors.
func (t *Ticket) AuthorizeTransition(newStatus vo.TicketStatus, actor authorization.Actor) (vo.TransitionRule, error) {
	if !newStatus.IsValid() {
		return vo.TransitionRule{}, apperrors.NewValidationError(fmt.Sprintf("invalid status: %s", newStatus))
	}

	rule, ok := t.status.RuleFor(newStatus)
	if !ok {
		return vo.TransitionRule{}, apperrors.NewInvalidTransitionError(t.status.String(), newStatus.String())
	}

	if !rule.AllowsRole(actor.Role) {
		return vo.TransitionRule{}, apperrors.NewForbiddenError(
			"you do not have permission to perform this action",
			fmt.Sprintf("role %s may not move ticket from %s to %s", actor.Role, t.status, newStatus),
		)
	}

	return rule, nil
}

// ApplyTransition moves the ticket to newStatus per the transition table.
// Check order is fixed: edge existence, then actor role, then payload.
// Role rejection comes before payload validation so an unauthorized actor
// never learns which fields would have been required.
func (t *Ticket) ApplyTransition(newStatus vo.TicketStatus, actor authorization.Actor, payload TransitionPayload) error {
	rule, err := t.AuthorizeTransition(newStatus, actor)
	if err != nil {
		return err
	}

	if payload == nil {
		payload = EmptyPayload{}
	}

	var assigneeID uint
	var resolutionNotes, reopenReason string

	switch rule.Requires {
	case vo.InputAssignee:
		p, ok := payload.(AssignPayload)
		if !ok || p.AssigneeID == 0 {
			return apperrors.NewMissingFieldError(string(vo.InputAssignee))
		}
		assigneeID = p.AssigneeID
	case vo.InputResolutionNotes:
		p, ok := payload.(ResolvePayload)
		if !ok || strings.TrimSpace(p.Notes) == "" {
			return apperrors.NewMissingFieldError(string(vo.InputResolutionNotes))
		}
		resolutionNotes = strings.TrimSpace(p.Notes)
	case vo.InputReopenReason:
		p, ok := payload.(ReopenPayload)
		if !ok || strings.TrimSpace(p.Reason) == "" {
			return apperrors.NewMissingFieldError(string(vo.InputReopenReason))
		}
		reopenReason = strings.TrimSpace(p.Reason)
	case vo.InputNone:
		if _, ok := payload.(EmptyPayload); !ok {
			return apperrors.NewValidationError(
				fmt.Sprintf("transition to %s does not accept a payload", newStatus))
		}
	}

	// All checks passed: apply status and side effects atomically in memory.
	now := biztime.NowUTC()
	oldStatus := t.status
	t.status = newStatus
	t.updatedAt = now
	t.version++

	t.recordEvent(NewTicketStatusChangedEvent(t.id, oldStatus.String(), newStatus.String(), actor.UserID, now))

	switch newStatus {
	case vo.StatusAsignado:
		t.assignedTo = &assigneeID
		if t.assignedAt == nil {
			t.assignedAt = &now
		}
		t.recordEvent(NewTicketAssignedEvent(t.id, assigneeID, actor.UserID, false, now))
	case vo.StatusResuelto:
		t.resolutionNotes = resolutionNotes
		t.resolvedAt = &now
		t.recordEvent(NewTicketResolvedEvent(t.id, t.number, resolutionNotes, actor.UserID, t.AdditionalEmails(), now))
	case vo.StatusReabierto:
		// resolution notes and resolved_at stay as historical record
		t.recordEvent(NewTicketReopenedEvent(t.id, t.number, reopenReason, actor.UserID, t.AdditionalEmails(), now))
	case vo.StatusCerrado:
		t.closedAt = &now
		t.recordEvent(NewTicketClosedEvent(t.id, t.number, actor.UserID, now))
	case vo.StatusCancelado:
		t.recordEvent(NewTicketCancelledEvent(t.id, t.number, actor.UserID, now))
	}

	return nil
}

// AssignTo sets the assigned technician. On a nuevo ticket this couples
// with the transition to asignado; on a ticket already in flight it is a
// reassignment with no status change. assigned_at is stamped exactly once,
// on first assignment.
func (t *Ticket) AssignTo(assigneeID uint, actor authorization.Actor) error {
	if !actor.Role.CanAssignTickets() {
		return apperrors.NewForbiddenError(
			"you do not have permission to perform this action",
			fmt.Sprintf("role %s may not assign tickets", actor.Role),
		)
	}
	if assigneeID == 0 {
		return apperrors.NewMissingFieldError(string(vo.InputAssignee))
	}
	if t.status.IsTerminal() {
		return apperrors.NewInvalidTransitionError(t.status.String(), vo.StatusAsignado.String())
	}

	if t.status.IsNuevo() {
		return t.ApplyTransition(vo.StatusAsignado, actor, AssignPayload{AssigneeID: assigneeID})
	}

	now := biztime.NowUTC()
	t.assignedTo = &assigneeID
	if t.assignedAt == nil {
		t.assignedAt = &now
	}
	t.updatedAt = now
	t.version++
	t.recordEvent(NewTicketAssignedEvent(t.id, assigneeID, actor.UserID, true, now))

	return nil
}

// AddComment appends a comment to the in-memory aggregate. Persistence of
// the comment itself is the comment repository's job.
func (t *Ticket) AddComment(comment *Comment) error {
	if comment == nil {
		return fmt.Errorf("comment cannot be nil")
	}
	if comment.TicketID() != t.id {
		return fmt.Errorf("comment ticket ID mismatch")
	}

	t.comments = append(t.comments, comment)
	t.updatedAt = biztime.NowUTC()
	return nil
}

// CanBeViewedBy implements the read-scoping rule: staff see everything,
// client-side users see only their own client's tickets.
func (t *Ticket) CanBeViewedBy(userID uint, role authorization.UserRole, userClientID uint) bool {
	if role.IsStaff() {
		return true
	}
	if role == authorization.RoleClientAdmin {
		return t.clientID == userClientID
	}
	return t.createdBy == userID
}

func (t *Ticket) recordEvent(event events.DomainEvent) {
	t.events = append(t.events, event)
}

// GetEvents returns the domain events recorded since load.
func (t *Ticket) GetEvents() []events.DomainEvent {
	eventsCopy := make([]events.DomainEvent, len(t.events))
	copy(eventsCopy, t.events)
	return eventsCopy
}

// ClearEvents drops recorded events after they have been dispatched.
func (t *Ticket) ClearEvents() {
	t.events = nil
}
