package models

import "gorm.io/datatypes"

type TicketModel struct {
	ID               uint   `gorm:"primaryKey"`
	Number           string `gorm:"uniqueIndex;size:50;not null"`
	ClientID         uint   `gorm:"not null;index"`
	SiteID           uint   `gorm:"not null;index"`
	CategoryID       *uint  `gorm:"index"`
	Subject          string `gorm:"size:200;not null"`
	Description      string `gorm:"type:text;not null"`
	AffectedPerson   string `gorm:"size:120;not null"`
	ContactEmail     string `gorm:"size:254"`
	ContactPhone     string `gorm:"size:32"`
	AdditionalEmails datatypes.JSON
	Priority         string `gorm:"size:20;not null;index"`
	Status           string `gorm:"size:30;not null;index"`
	CreatedBy        uint   `gorm:"not null;index"`
	AssignedTo       *uint  `gorm:"index"`
	ResolutionNotes  string `gorm:"type:text"`
	Version          int    `gorm:"not null;default:1"`
	CreatedAt        int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt        int64  `gorm:"autoUpdateTime:milli;not null"`
	AssignedAt       *int64
	ResolvedAt       *int64
	ClosedAt         *int64

	// No foreign key constraints or associations; relationships are
	// managed by application business logic.
}

func (TicketModel) TableName() string {
	return "tickets"
}

type CommentModel struct {
	ID         uint   `gorm:"primaryKey"`
	TicketID   uint   `gorm:"not null;index"`
	AuthorID   uint   `gorm:"not null;index"`
	Content    string `gorm:"type:text;not null"`
	IsInternal bool   `gorm:"not null;default:false"`
	CreatedAt  int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (CommentModel) TableName() string {
	return "ticket_comments"
}
