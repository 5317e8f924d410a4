package dto

import (
	"time"

	"helpdesk/internal/domain/ticket"
)

// TicketDTO is the full ticket snapshot returned by every mutating call,
// so any caller can render from a single authoritative response.
type TicketDTO struct {
	ID               uint       `json:"id"`
	Number           string     `json:"number"`
	ClientID         uint       `json:"client_id"`
	SiteID           uint       `json:"site_id"`
	CategoryID       *uint      `json:"category_id"`
	Subject          string     `json:"subject"`
	Description      string     `json:"description"`
	AffectedPerson   string     `json:"affected_person"`
	ContactEmail     string     `json:"contact_email,omitempty"`
	ContactPhone     string     `json:"contact_phone,omitempty"`
	AdditionalEmails []string   `json:"additional_emails"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	CreatedBy        uint       `json:"created_by"`
	AssignedTo       *uint      `json:"assigned_to"`
	ResolutionNotes  string     `json:"resolution_notes,omitempty"`
	Version          int        `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	AssignedAt       *time.Time `json:"assigned_at"`
	ResolvedAt       *time.Time `json:"resolved_at"`
	ClosedAt         *time.Time `json:"closed_at"`
	Comments         []CommentDTO `json:"comments,omitempty"`
}

type CommentDTO struct {
	ID         uint      `json:"id"`
	AuthorID   uint      `json:"author_id"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

type TicketListItemDTO struct {
	ID         uint      `json:"id"`
	Number     string    `json:"number"`
	Subject    string    `json:"subject"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	ClientID   uint      `json:"client_id"`
	SiteID     uint      `json:"site_id"`
	CreatedBy  uint      `json:"created_by"`
	AssignedTo *uint     `json:"assigned_to"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToTicketDTO maps the aggregate to its snapshot. Internal comments are
// stripped for client-side viewers.
func ToTicketDTO(t *ticket.Ticket, comments []*ticket.Comment, clientSideViewer bool) *TicketDTO {
	if t == nil {
		return nil
	}

	commentDTOs := make([]CommentDTO, 0)
	for _, c := range comments {
		if !c.VisibleTo(clientSideViewer) {
			continue
		}
		commentDTOs = append(commentDTOs, CommentDTO{
			ID:         c.ID(),
			AuthorID:   c.AuthorID(),
			Content:    c.Content(),
			IsInternal: c.IsInternal(),
			CreatedAt:  c.CreatedAt(),
		})
	}

	return &TicketDTO{
		ID:               t.ID(),
		Number:           t.Number(),
		ClientID:         t.ClientID(),
		SiteID:           t.SiteID(),
		CategoryID:       t.CategoryID(),
		Subject:          t.Subject(),
		Description:      t.Description(),
		AffectedPerson:   t.AffectedPerson(),
		ContactEmail:     t.ContactEmail(),
		ContactPhone:     t.ContactPhone(),
		AdditionalEmails: t.AdditionalEmails(),
		Priority:         t.Priority().String(),
		Status:           t.Status().String(),
		CreatedBy:        t.CreatedBy(),
		AssignedTo:       t.AssignedTo(),
		ResolutionNotes:  t.ResolutionNotes(),
		Version:          t.Version(),
		CreatedAt:        t.CreatedAt(),
		UpdatedAt:        t.UpdatedAt(),
		AssignedAt:       t.AssignedAt(),
		ResolvedAt:       t.ResolvedAt(),
		ClosedAt:         t.ClosedAt(),
		Comments:         commentDTOs,
	}
}

// ToTicketListItemDTO maps the aggregate to its list row.
func ToTicketListItemDTO(t *ticket.Ticket) TicketListItemDTO {
	return TicketListItemDTO{
		ID:         t.ID(),
		Number:     t.Number(),
		Subject:    t.Subject(),
		Status:     t.Status().String(),
		Priority:   t.Priority().String(),
		ClientID:   t.ClientID(),
		SiteID:     t.SiteID(),
		CreatedBy:  t.CreatedBy(),
		AssignedTo: t.AssignedTo(),
		CreatedAt:  t.CreatedAt(),
		UpdatedAt:  t.UpdatedAt(),
	}
}
