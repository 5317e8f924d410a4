package mappers

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between Ticket domain entities and
// persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	CommentToModel(c *ticket.Comment) *models.CommentModel
	CommentToDomain(model *models.CommentModel) (*ticket.Comment, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	model := &models.TicketModel{
		ID:              t.ID(),
		Number:          t.Number(),
		ClientID:        t.ClientID(),
		SiteID:          t.SiteID(),
		CategoryID:      t.CategoryID(),
		Subject:         t.Subject(),
		Description:     t.Description(),
		AffectedPerson:  t.AffectedPerson(),
		ContactEmail:    t.ContactEmail(),
		ContactPhone:    t.ContactPhone(),
		Priority:        t.Priority().String(),
		Status:          t.Status().String(),
		CreatedBy:       t.CreatedBy(),
		AssignedTo:      t.AssignedTo(),
		ResolutionNotes: t.ResolutionNotes(),
		Version:         t.Version(),
		CreatedAt:       t.CreatedAt().UnixMilli(),
		UpdatedAt:       t.UpdatedAt().UnixMilli(),
	}

	if emails := t.AdditionalEmails(); len(emails) > 0 {
		if raw, err := json.Marshal(emails); err == nil {
			model.AdditionalEmails = datatypes.JSON(raw)
		}
	}

	model.AssignedAt = toMilliPtr(t.AssignedAt())
	model.ResolvedAt = toMilliPtr(t.ResolvedAt())
	model.ClosedAt = toMilliPtr(t.ClosedAt())

	return model
}

// ToDomain converts the ticket row back to a domain entity. Comments are
// loaded separately by the repository.
func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, err
	}
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, err
	}

	var emails []string
	if len(model.AdditionalEmails) > 0 {
		if err := json.Unmarshal(model.AdditionalEmails, &emails); err != nil {
			emails = nil
		}
	}

	return ticket.ReconstructTicket(ticket.ReconstructTicketParams{
		ID:               model.ID,
		Number:           model.Number,
		ClientID:         model.ClientID,
		SiteID:           model.SiteID,
		CategoryID:       model.CategoryID,
		Subject:          model.Subject,
		Description:      model.Description,
		AffectedPerson:   model.AffectedPerson,
		ContactEmail:     model.ContactEmail,
		ContactPhone:     model.ContactPhone,
		AdditionalEmails: emails,
		Priority:         priority,
		Status:           status,
		CreatedBy:        model.CreatedBy,
		AssignedTo:       model.AssignedTo,
		ResolutionNotes:  model.ResolutionNotes,
		Version:          model.Version,
		CreatedAt:        time.UnixMilli(model.CreatedAt).UTC(),
		UpdatedAt:        time.UnixMilli(model.UpdatedAt).UTC(),
		AssignedAt:       fromMilliPtr(model.AssignedAt),
		ResolvedAt:       fromMilliPtr(model.ResolvedAt),
		ClosedAt:         fromMilliPtr(model.ClosedAt),
	})
}

func (m *TicketMapperImpl) CommentToModel(c *ticket.Comment) *models.CommentModel {
	return &models.CommentModel{
		ID:         c.ID(),
		TicketID:   c.TicketID(),
		AuthorID:   c.AuthorID(),
		Content:    c.Content(),
		IsInternal: c.IsInternal(),
		CreatedAt:  c.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) CommentToDomain(model *models.CommentModel) (*ticket.Comment, error) {
	return ticket.ReconstructComment(
		model.ID,
		model.TicketID,
		model.AuthorID,
		model.Content,
		model.IsInternal,
		time.UnixMilli(model.CreatedAt).UTC(),
	)
}

func toMilliPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func fromMilliPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
