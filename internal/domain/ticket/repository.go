package ticket

import (
	"context"

	vo "helpdesk/internal/domain/ticket/valueobjects"
)

// TicketRepository is the durable ticket store. Update is conditioned on
// the version the aggregate was loaded with; losing that race surfaces as
// a conflicting-state error, never a silent overwrite.
type TicketRepository interface {
	Save(ctx context.Context, ticket *Ticket) error
	// Update persists the aggregate only if the stored version still
	// matches the version the aggregate was loaded with. Returns a
	// conflicting-state error on mismatch.
	Update(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	GetByNumber(ctx context.Context, number string) (*Ticket, error)
	List(ctx context.Context, filters TicketFilter) ([]*Ticket, int64, error)
}

// TicketFilter narrows List results.
type TicketFilter struct {
	Status     *vo.TicketStatus
	Priority   *vo.Priority
	ClientID   *uint
	SiteID     *uint
	CreatorID  *uint
	AssigneeID *uint
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// CommentRepository is the append-only comment/audit log.
type CommentRepository interface {
	Save(ctx context.Context, comment *Comment) error
	GetByTicketID(ctx context.Context, ticketID uint) ([]*Comment, error)
}
