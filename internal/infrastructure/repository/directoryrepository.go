package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"helpdesk/internal/domain/directory"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/authorization"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/db"
)

// DirectoryRepository backs both directory ports with the platform's
// user/client/site tables.
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) GetByID(ctx context.Context, userID uint) (*directory.User, error) {
	var model models.UserModel
	tx := db.Conn(ctx, r.db)

	if err := tx.First(&model, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, apperrors.NewStoreError("failed to find user", err)
	}

	role, ok := authorization.ParseUserRole(model.Role)
	if !ok {
		return nil, apperrors.NewInternalError("user has an unknown role")
	}

	return &directory.User{
		ID:       model.ID,
		Name:     model.Name,
		Email:    model.Email,
		Role:     role,
		ClientID: model.ClientID,
		Active:   model.Active,
	}, nil
}

func (r *DirectoryRepository) SiteBelongsToClient(ctx context.Context, clientID, siteID uint) (bool, error) {
	var count int64
	tx := db.Conn(ctx, r.db)

	if err := tx.
		Model(&models.SiteModel{}).
		Where("id = ? AND client_id = ? AND active = ?", siteID, clientID, true).
		Count(&count).Error; err != nil {
		return false, apperrors.NewStoreError("failed to check site", err)
	}

	return count > 0, nil
}
