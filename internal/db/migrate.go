package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"secondhand/internal/model"
)

// Migrate creates or updates every table. With reset set, existing tables
// are dropped first in reverse dependency order.
func Migrate(db *gorm.DB, reset bool, log *zap.Logger) error {
	tables := model.All()
	if reset {
		log.Warn("RESET_DB=true detected, dropping all tables")
		for i := len(tables) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(tables[i]); err != nil {
				log.Warn("drop table failed (may not exist)", zap.Error(err))
			}
		}
	}
	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
