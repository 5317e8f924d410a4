package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/db"
)

// allowedTicketOrderByFields is the whitelist of ORDER BY fields to prevent
// SQL injection.
var allowedTicketOrderByFields = map[string]bool{
	"id":          true,
	"number":      true,
	"subject":     true,
	"status":      true,
	"priority":    true,
	"client_id":   true,
	"site_id":     true,
	"created_by":  true,
	"assigned_to": true,
	"created_at":  true,
	"updated_at":  true,
}

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.Conn(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save ticket: %w", err)
	}

	return t.SetID(model.ID)
}

// Update writes the aggregate conditioned on the version it was loaded
// with. The aggregate increments its version on every mutation, so the
// row must still hold version-1 for the write to land; zero rows affected
// means a concurrent writer won.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.Conn(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return apperrors.NewStoreError("failed to update ticket", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.TicketModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return apperrors.NewStoreError("failed to update ticket", err)
		}
		if count == 0 {
			return apperrors.NewNotFoundError("ticket not found")
		}
		return apperrors.NewConflictingStateError("ticket was modified concurrently")
	}

	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.Conn(ctx, r.db)

	if err := tx.First(&model, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("ticket not found")
		}
		return nil, apperrors.NewStoreError("failed to find ticket", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) GetByNumber(ctx context.Context, number string) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.Conn(ctx, r.db)

	if err := tx.Where("number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("ticket not found")
		}
		return nil, apperrors.NewStoreError("failed to find ticket", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) List(ctx context.Context, filters ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	tx := db.Conn(ctx, r.db)
	query := tx.Model(&models.TicketModel{})

	if filters.Status != nil {
		query = query.Where("status = ?", filters.Status.String())
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", filters.Priority.String())
	}
	if filters.ClientID != nil {
		query = query.Where("client_id = ?", *filters.ClientID)
	}
	if filters.SiteID != nil {
		query = query.Where("site_id = ?", *filters.SiteID)
	}
	if filters.CreatorID != nil {
		query = query.Where("created_by = ?", *filters.CreatorID)
	}
	if filters.AssigneeID != nil {
		query = query.Where("assigned_to = ?", *filters.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewStoreError("failed to count tickets", err)
	}

	query = query.Order(r.orderClause(filters))
	if filters.PageSize > 0 {
		offset := (filters.Page - 1) * filters.PageSize
		query = query.Offset(offset).Limit(filters.PageSize)
	}

	var rows []models.TicketModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, apperrors.NewStoreError("failed to list tickets", err)
	}

	tickets := make([]*ticket.Ticket, 0, len(rows))
	for i := range rows {
		t, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}

	return tickets, total, nil
}

func (r *TicketRepository) orderClause(filters ticket.TicketFilter) string {
	field := "created_at"
	if allowedTicketOrderByFields[filters.SortBy] {
		field = filters.SortBy
	}
	order := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		order = "ASC"
	}
	return field + " " + order
}
