package migration

import (
	"helpdesk/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.ClientModel{},
		&models.SiteModel{},
		&models.TicketModel{},
		&models.CommentModel{},
		&models.AgentTokenModel{},
		&models.TokenUsageLogModel{},
	}
}
