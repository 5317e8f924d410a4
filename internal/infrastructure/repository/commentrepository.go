package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/db"
)

type CommentRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *CommentRepository) Save(ctx context.Context, comment *ticket.Comment) error {
	model := r.mapper.CommentToModel(comment)
	tx := db.Conn(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}

	return comment.SetID(model.ID)
}

func (r *CommentRepository) GetByTicketID(ctx context.Context, ticketID uint) ([]*ticket.Comment, error) {
	var rows []models.CommentModel
	tx := db.Conn(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.NewStoreError("failed to load comments", err)
	}

	comments := make([]*ticket.Comment, 0, len(rows))
	for i := range rows {
		c, err := r.mapper.CommentToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, nil
}
