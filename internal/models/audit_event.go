package models

import "time"

// AuditEventType classifies audit log records.
type AuditEventType string

const (
	AuditTradeExecuted    AuditEventType = "TRADE_EXECUTED"
	AuditPortfolioUpdated AuditEventType = "PORTFOLIO_UPDATED"
	AuditSystemEvent      AuditEventType = "SYSTEM_EVENT"
)

// AuditEvent is an append-only compliance record. Rows are never updated or
// deleted by the ledger; ComplianceFlag marks rows retained for regulatory
// reporting.
type AuditEvent struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	EventType      AuditEventType `gorm:"type:varchar(32);not null;index:idx_audit_user_type_time,priority:2" json:"event_type"`
	OccurredAt     time.Time      `gorm:"not null;autoCreateTime;index;index:idx_audit_user_type_time,priority:3" json:"occurred_at"`
	UserID         *int64         `gorm:"index:idx_audit_user_type_time,priority:1" json:"user_id,omitempty"`
	TradeID        *uint64        `gorm:"index" json:"trade_id,omitempty"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	ComplianceFlag bool           `gorm:"not null;default:false" json:"compliance_flag"`
}
