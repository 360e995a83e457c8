package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trading-ledger-go/internal/models"
)

// eodGroup is one (user, instrument) aggregation row for the current day.
type eodGroup struct {
	UserID     int64
	Instrument string
	NetAmount  decimal.Decimal
	AvgPrice   decimal.Decimal
}

// RunEndOfDay summarizes today's trades (UTC day boundary) per user and
// instrument and appends one compliance-flagged SYSTEM_EVENT audit row per
// group. Net amount is the signed sum of trade amounts (SELL negated); the
// price is the plain arithmetic mean of the group's trade prices, not
// volume-weighted. The batch commits atomically: a failure mid-write leaves
// no summary rows behind. Returns the number of groups summarized.
func (s *Service) RunEndOfDay(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var groups []eodGroup
	err := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Select("user_id, instrument, "+
			"SUM(CASE WHEN trade_type = ? THEN amount ELSE -amount END) AS net_amount, "+
			"AVG(price) AS avg_price", models.TradeTypeBuy).
		Where("timestamp >= ?", midnight).
		Group("user_id, instrument").
		Order("user_id, instrument").
		Scan(&groups).Error
	if err != nil {
		return 0, wrapStorageErr("aggregate", "trades", err)
	}
	if len(groups) == 0 {
		s.log.Info("End-of-day run found no trades to summarize")
		return 0, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range groups {
			g := groups[i]
			description := fmt.Sprintf("EOD Summary: %s %s @ avg %s", g.NetAmount, g.Instrument, g.AvgPrice)
			if err := s.audit.Record(tx, models.AuditSystemEvent, &g.UserID, nil, description, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var pe *PersistenceError
		if !errors.As(err, &pe) {
			err = wrapStorageErr("commit", "end-of-day summaries", err)
		}
		return 0, err
	}

	s.log.Info("End-of-day summaries recorded", zap.Int("groups", len(groups)))
	return len(groups), nil
}
