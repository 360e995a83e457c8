package ledger

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trading-ledger-go/internal/models"
)

// AuditLogger appends immutable audit rows on a caller-supplied transaction
// handle. A recorded row becomes visible when the enclosing transaction
// commits and disappears with a rollback; the logger itself never commits.
type AuditLogger struct {
	log *zap.Logger
}

// NewAuditLogger creates a new AuditLogger.
func NewAuditLogger(log *zap.Logger) *AuditLogger {
	return &AuditLogger{log: log}
}

// Record stages one audit event on tx. userID and tradeID are optional.
func (a *AuditLogger) Record(tx *gorm.DB, eventType models.AuditEventType, userID *int64, tradeID *uint64, description string, compliance bool) error {
	event := models.AuditEvent{
		EventType:      eventType,
		UserID:         userID,
		TradeID:        tradeID,
		Description:    description,
		ComplianceFlag: compliance,
	}
	if err := tx.Create(&event).Error; err != nil {
		return wrapStorageErr("record", "audit event", err)
	}
	a.log.Debug("Audit event staged",
		zap.String("event_type", string(eventType)),
		zap.Bool("compliance", compliance))
	return nil
}
