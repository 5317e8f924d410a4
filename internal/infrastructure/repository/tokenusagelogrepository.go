package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/db"
)

// TokenUsageLogRepository is the append-only enrollment audit log.
type TokenUsageLogRepository struct {
	db     *gorm.DB
	mapper mappers.AgentTokenMapper
}

func NewTokenUsageLogRepository(db *gorm.DB) *TokenUsageLogRepository {
	return &TokenUsageLogRepository{
		db:     db,
		mapper: mappers.NewAgentTokenMapper(),
	}
}

func (r *TokenUsageLogRepository) Append(ctx context.Context, attempt agenttoken.UsageAttempt) error {
	model := r.mapper.UsageToModel(attempt)
	tx := db.Conn(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to append usage attempt: %w", err)
	}

	return nil
}

func (r *TokenUsageLogRepository) GetByTokenID(ctx context.Context, tokenID uint) ([]agenttoken.UsageAttempt, error) {
	var rows []models.TokenUsageLogModel
	tx := db.Conn(ctx, r.db)

	if err := tx.
		Where("token_id = ?", tokenID).
		Order("attempt_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.NewStoreError("failed to load usage history", err)
	}

	attempts := make([]agenttoken.UsageAttempt, 0, len(rows))
	for i := range rows {
		attempts = append(attempts, r.mapper.UsageToDomain(&rows[i]))
	}

	return attempts, nil
}
