package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trading-ledger-go/internal/models"
)

// DefaultQueryLimit caps read results when the caller supplies no limit.
const DefaultQueryLimit = 100

// Service is the persistence core of the trading ledger. All mutation of
// trades, portfolios, positions and the audit log goes through it; no other
// code path may write those tables.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	audit *AuditLogger
}

// NewService creates the ledger service.
func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{
		db:    db,
		log:   log,
		audit: NewAuditLogger(log),
	}
}

// ExecuteTrade records a trade and folds it into the user's portfolio as one
// atomic unit of work: trade insert, portfolio lookup-or-create, locked
// position update, audit event. On any failure nothing is persisted.
//
// Concurrent calls for the same (user, instrument) serialize on the
// exclusive position row lock. Lock contention surfaces as ErrConcurrency
// with the operation fully rolled back; retrying is the caller's job, the
// service never retries internally.
func (s *Service) ExecuteTrade(ctx context.Context, userID int64, instrument string, amount, price decimal.Decimal, tradeType models.TradeType) (*models.Trade, error) {
	if err := validateTradeInput(instrument, amount, price, tradeType); err != nil {
		return nil, err
	}

	trade := &models.Trade{
		UserID:     userID,
		Instrument: instrument,
		Amount:     amount,
		Price:      price,
		TradeType:  tradeType,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Insert first so the generated id is available to the audit event.
		if err := tx.Create(trade).Error; err != nil {
			return wrapStorageErr("insert", "trade", err)
		}

		portfolio, err := ensurePortfolio(tx, userID)
		if err != nil {
			return err
		}

		var pos models.PortfolioPosition
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("portfolio_id = ? AND instrument = ?", portfolio.ID, instrument).
			First(&pos).Error
		switch {
		case err == nil:
			applyTrade(&pos, amount, price, tradeType)
			if err := tx.Save(&pos).Error; err != nil {
				return wrapStorageErr("update", "position", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			pos = models.PortfolioPosition{
				PortfolioID: portfolio.ID,
				Instrument:  instrument,
				Quantity:    signedQuantity(amount, tradeType),
				AvgPrice:    price,
			}
			if err := tx.Create(&pos).Error; err != nil {
				return wrapStorageErr("insert", "position", err)
			}
		default:
			return wrapStorageErr("lock", "position", err)
		}

		description := fmt.Sprintf("Executed %s %s %s @ %s", tradeType, amount, instrument, price)
		return s.audit.Record(tx, models.AuditTradeExecuted, &userID, &trade.ID, description, false)
	})
	if err != nil {
		// Begin/commit failures arrive raw; everything inside the unit of
		// work is already classified.
		var pe *PersistenceError
		var ve *ValidationError
		if !errors.As(err, &pe) && !errors.As(err, &ve) {
			err = wrapStorageErr("execute", "trade", err)
		}
		s.log.Error("Trade execution failed",
			zap.Int64("user_id", userID),
			zap.String("instrument", instrument),
			zap.Error(err))
		return nil, err
	}

	s.log.Info("Trade executed",
		zap.Uint64("trade_id", trade.ID),
		zap.Int64("user_id", userID),
		zap.String("instrument", instrument),
		zap.String("type", string(tradeType)))
	return trade, nil
}

func validateTradeInput(instrument string, amount, price decimal.Decimal, tradeType models.TradeType) error {
	if instrument == "" {
		return &ValidationError{Field: "instrument", Reason: "must not be empty"}
	}
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if !price.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	if !tradeType.Valid() {
		return &ValidationError{Field: "trade_type", Reason: fmt.Sprintf("unknown type %q", tradeType)}
	}
	return nil
}

// ensurePortfolio returns the user's portfolio, creating it on first use.
// The unique constraint on user_id is the backstop against a concurrent
// duplicate; losing that race rolls the caller's transaction back as a
// constraint violation and a retry finds the winner's row.
func ensurePortfolio(tx *gorm.DB, userID int64) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := tx.Where("user_id = ?", userID).First(&portfolio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		portfolio = models.Portfolio{UserID: userID}
		err = tx.Create(&portfolio).Error
	}
	if err != nil {
		return nil, wrapStorageErr("ensure", "portfolio", err)
	}
	return &portfolio, nil
}

func signedQuantity(amount decimal.Decimal, tradeType models.TradeType) decimal.Decimal {
	if tradeType == models.TradeTypeSell {
		return amount.Neg()
	}
	return amount
}

// applyTrade folds one trade into an existing position. A BUY recomputes the
// volume-weighted cost basis over the new quantity, resetting it to 0 when
// the resulting quantity is flat or short. A SELL reduces quantity only; the
// cost basis of the remaining shares stays as it was, including when the
// position crosses through zero.
func applyTrade(pos *models.PortfolioPosition, amount, price decimal.Decimal, tradeType models.TradeType) {
	if tradeType == models.TradeTypeBuy {
		newQty := pos.Quantity.Add(amount)
		if newQty.IsPositive() {
			totalCost := pos.Quantity.Mul(pos.AvgPrice).Add(amount.Mul(price))
			pos.AvgPrice = totalCost.Div(newQty)
		} else {
			pos.AvgPrice = decimal.Zero
		}
		pos.Quantity = newQty
		return
	}
	pos.Quantity = pos.Quantity.Sub(amount)
}
