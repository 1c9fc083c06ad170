package database

import (
	"log"

	"weather-forecaster/internal/database/versions/migration_0"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func GetMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	migrator := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID:       "0",
			Migrate:  migration_0.Migration,
			Rollback: migration_0.Rollback,
		},
	})

	migrator.InitSchema(func(txn *gorm.DB) error {
		// Runs instead of the migrations above on a clean database, creating the
		// latest schema directly.

		log.Println("clean database detected, running full schema initialization")

		return txn.AutoMigrate(&PredictionRecord{})
	})

	return migrator
}
