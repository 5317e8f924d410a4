package models

type AgentTokenModel struct {
	ID         uint   `gorm:"primaryKey"`
	Value      string `gorm:"uniqueIndex;size:64;not null"`
	ClientID   uint   `gorm:"not null;index:idx_agent_tokens_scope"`
	SiteID     uint   `gorm:"not null;index:idx_agent_tokens_scope"`
	Notes      string `gorm:"size:500"`
	IsActive   bool   `gorm:"not null;default:true;index"`
	UsageCount int    `gorm:"not null;default:0"`
	Version    int    `gorm:"not null;default:1"`
	CreatedBy  uint   `gorm:"not null;index"`
	CreatedAt  int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt  int64  `gorm:"autoUpdateTime:milli;not null"`
	ExpiresAt  *int64 `gorm:"index"`
	LastUsedAt *int64
}

func (AgentTokenModel) TableName() string {
	return "agent_installation_tokens"
}

type TokenUsageLogModel struct {
	ID         uint   `gorm:"primaryKey"`
	TokenID    uint   `gorm:"not null;index"`
	Success    bool   `gorm:"not null"`
	Reason     string `gorm:"size:100"`
	DeviceInfo string `gorm:"size:255"`
	AttemptAt  int64  `gorm:"not null;index"`
}

func (TokenUsageLogModel) TableName() string {
	return "agent_token_usage_log"
}
