package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/db"
)

type AgentTokenRepository struct {
	db     *gorm.DB
	mapper mappers.AgentTokenMapper
}

func NewAgentTokenRepository(db *gorm.DB) *AgentTokenRepository {
	return &AgentTokenRepository{
		db:     db,
		mapper: mappers.NewAgentTokenMapper(),
	}
}

func (r *AgentTokenRepository) Save(ctx context.Context, token *agenttoken.AgentToken) error {
	model := r.mapper.ToModel(token)
	tx := db.Conn(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return token.SetID(model.ID)
}

// Update carries the same version-conditioned write as the ticket store.
func (r *AgentTokenRepository) Update(ctx context.Context, token *agenttoken.AgentToken) error {
	model := r.mapper.ToModel(token)
	tx := db.Conn(ctx, r.db)

	result := tx.
		Model(&models.AgentTokenModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return apperrors.NewStoreError("failed to update token", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.AgentTokenModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return apperrors.NewStoreError("failed to update token", err)
		}
		if count == 0 {
			return apperrors.NewNotFoundError("token not found")
		}
		return apperrors.NewConflictingStateError("token was modified concurrently")
	}

	return nil
}

func (r *AgentTokenRepository) Delete(ctx context.Context, tokenID uint) error {
	tx := db.Conn(ctx, r.db)

	result := tx.Delete(&models.AgentTokenModel{}, tokenID)
	if result.Error != nil {
		return apperrors.NewStoreError("failed to delete token", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("token not found")
	}

	return nil
}

func (r *AgentTokenRepository) GetByID(ctx context.Context, tokenID uint) (*agenttoken.AgentToken, error) {
	var model models.AgentTokenModel
	tx := db.Conn(ctx, r.db)

	if err := tx.First(&model, tokenID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("token not found")
		}
		return nil, apperrors.NewStoreError("failed to find token", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *AgentTokenRepository) GetByValue(ctx context.Context, value string) (*agenttoken.AgentToken, error) {
	var model models.AgentTokenModel
	tx := db.Conn(ctx, r.db)

	if err := tx.Where("value = ?", value).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("token not found")
		}
		return nil, apperrors.NewStoreError("failed to find token", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *AgentTokenRepository) ListByScope(ctx context.Context, clientID, siteID uint) ([]*agenttoken.AgentToken, error) {
	tx := db.Conn(ctx, r.db)
	query := tx.Model(&models.AgentTokenModel{}).Where("client_id = ?", clientID)
	if siteID != 0 {
		query = query.Where("site_id = ?", siteID)
	}

	var rows []models.AgentTokenModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperrors.NewStoreError("failed to list tokens", err)
	}

	tokens := make([]*agenttoken.AgentToken, 0, len(rows))
	for i := range rows {
		t, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}

	return tokens, nil
}
