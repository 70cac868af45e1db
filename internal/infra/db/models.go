package db

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type userModel struct {
	ID             uint   `gorm:"primaryKey"`
	TelegramUserID int64  `gorm:"uniqueIndex;not null"`
	Username       string `gorm:""`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

type alertModel struct {
	ID          uint                `gorm:"primaryKey"`
	UserID      uint                `gorm:"index;not null"`
	Market      string              `gorm:"index:idx_alerts_key_active,priority:1;not null"`
	Pair        string              `gorm:"index:idx_alerts_key_active,priority:2;not null"`
	Direction   string              `gorm:"not null"`
	TargetPrice decimal.Decimal     `gorm:"type:decimal(32,12);not null"`
	BasePrice   decimal.NullDecimal `gorm:"type:decimal(32,12)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	TriggeredAt *time.Time     `gorm:"index:idx_alerts_key_active,priority:3"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
