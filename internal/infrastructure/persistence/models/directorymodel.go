package models

// Directory tables. The helpdesk core only reads these; user and client
// management is handled by the surrounding platform.

type UserModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:120;not null"`
	Email     string `gorm:"uniqueIndex;size:254;not null"`
	Role      string `gorm:"size:30;not null;index"`
	ClientID  uint   `gorm:"index"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type ClientModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (ClientModel) TableName() string {
	return "clients"
}

type SiteModel struct {
	ID        uint   `gorm:"primaryKey"`
	ClientID  uint   `gorm:"not null;index"`
	Name      string `gorm:"size:200;not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (SiteModel) TableName() string {
	return "sites"
}
