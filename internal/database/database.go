package database

import (
	"fmt"
	"time"

	"trading-ledger-go/internal/config"
	"trading-ledger-go/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens a database connection for the configured driver and performs
// schema migration. TranslateError is enabled so unique and foreign-key
// violations surface as gorm sentinel errors regardless of driver.
func New(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		// Timestamps are stored in UTC so day-boundary queries behave the
		// same on every host and driver.
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or extends the ledger schema. Migration is strictly
// additive: the ledger is the system of record, so existing tables are never
// dropped or rewritten.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Trade{},
		&models.Portfolio{},
		&models.PortfolioPosition{},
		&models.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Delete rules live in the database, not the application: positions die
	// with their portfolio, audit rows outlive their trade with the
	// reference nulled.
	constraints := []struct {
		model any
		field string
	}{
		{&models.Portfolio{}, "Positions"},
		{&models.Trade{}, "AuditEvents"},
	}
	for _, c := range constraints {
		if db.Migrator().HasConstraint(c.model, c.field) {
			continue
		}
		if err := db.Migrator().CreateConstraint(c.model, c.field); err != nil {
			return fmt.Errorf("failed to create %s constraint: %w", c.field, err)
		}
	}
	return nil
}
