package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeType is the direction of a trade.
type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

// Valid reports whether t is a known trade type.
func (t TradeType) Valid() bool {
	return t == TradeTypeBuy || t == TradeTypeSell
}

// Trade is an immutable record of an executed trade. Rows are only ever
// inserted; audit events referencing a trade hold a nullable foreign key, so
// removing a trade row never touches the audit log beyond nulling that
// reference.
type Trade struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"not null;index:idx_trades_user_instrument,priority:1" json:"user_id"`
	Instrument string          `gorm:"type:varchar(64);not null;index:idx_trades_user_instrument,priority:2" json:"instrument"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"amount"`
	Price      decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"price"`
	TradeType  TradeType       `gorm:"type:varchar(8);not null;index" json:"trade_type"`
	Timestamp  time.Time       `gorm:"not null;autoCreateTime;index" json:"timestamp"`

	AuditEvents []AuditEvent `gorm:"foreignKey:TradeID;constraint:OnDelete:SET NULL" json:"-"`
}
