package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioPosition is the net holding of one instrument within a portfolio,
// unique per (portfolio, instrument). Quantity is signed: positive means net
// long. AvgPrice is the volume-weighted cost basis of the currently held
// quantity. Only the ledger service mutates positions, under a row lock.
type PortfolioPosition struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	PortfolioID uint64          `gorm:"not null;uniqueIndex:idx_positions_portfolio_instrument,priority:1" json:"portfolio_id"`
	Instrument  string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_positions_portfolio_instrument,priority:2" json:"instrument"`
	Quantity    decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"quantity"`
	AvgPrice    decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"avg_price"`
	LastUpdated time.Time       `gorm:"not null;autoUpdateTime" json:"last_updated"`
}
