package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/db"
)

// TicketNumberGenerator issues TKT-YYYYMMDD-NNNN numbers sequenced off
// the store, so multiple instances never collide on the same day.
type TicketNumberGenerator struct {
	db *gorm.DB
}

func NewTicketNumberGenerator(gormDB *gorm.DB) *TicketNumberGenerator {
	return &TicketNumberGenerator{db: gormDB}
}

func (g *TicketNumberGenerator) Generate(ctx context.Context) (string, error) {
	conn := db.Conn(ctx, g.db)

	dateKey := time.Now().UTC().Format("20060102")
	prefix := fmt.Sprintf("TKT-%s-", dateKey)

	var count int64
	if err := conn.Model(&models.TicketModel{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count tickets for %s: %w", dateKey, err)
	}

	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
