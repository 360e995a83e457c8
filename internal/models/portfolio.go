package models

import "time"

// Portfolio is a user's holdings container. There is exactly one per user,
// created lazily on the user's first trade.
type Portfolio struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Positions []PortfolioPosition `gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE" json:"positions,omitempty"`
}
