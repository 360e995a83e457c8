package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"trading-ledger-go/internal/models"
)

// PositionSummary is one row of a portfolio summary.
type PositionSummary struct {
	Instrument string          `json:"instrument"`
	Quantity   decimal.Decimal `json:"quantity"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
}

// AuditEventFilter narrows an audit log search. Nil fields apply no
// constraint; supplied fields combine with AND. Limit falls back to
// DefaultQueryLimit when zero or negative.
type AuditEventFilter struct {
	UserID    *int64
	EventType *models.AuditEventType
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

// PortfolioSummary returns the user's positions ordered by instrument. A
// user with no portfolio yet gets an empty summary, not an error. The read
// is lock-free and reflects last-committed state.
func (s *Service) PortfolioSummary(ctx context.Context, userID int64) ([]PositionSummary, error) {
	summary := make([]PositionSummary, 0)
	err := s.db.WithContext(ctx).
		Model(&models.PortfolioPosition{}).
		Select("portfolio_positions.instrument, portfolio_positions.quantity, portfolio_positions.avg_price").
		Joins("JOIN portfolios ON portfolios.id = portfolio_positions.portfolio_id").
		Where("portfolios.user_id = ?", userID).
		Order("portfolio_positions.instrument").
		Scan(&summary).Error
	if err != nil {
		return nil, wrapStorageErr("query", "portfolio summary", err)
	}
	return summary, nil
}

// AuditEvents returns audit events matching the filter, newest first.
func (s *Service) AuditEvents(ctx context.Context, filter AuditEventFilter) ([]models.AuditEvent, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditEvent{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.EventType != nil {
		q = q.Where("event_type = ?", *filter.EventType)
	}
	if filter.Since != nil {
		q = q.Where("occurred_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		q = q.Where("occurred_at <= ?", *filter.Until)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	var events []models.AuditEvent
	err := q.Order("occurred_at desc, id desc").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, wrapStorageErr("query", "audit events", err)
	}
	return events, nil
}

// UserTrades returns the user's trade history, newest first, paged by limit
// and offset.
func (s *Service) UserTrades(ctx context.Context, userID int64, limit, offset int) ([]models.Trade, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	var trades []models.Trade
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&trades).Error
	if err != nil {
		return nil, wrapStorageErr("query", "trades", err)
	}
	return trades, nil
}
