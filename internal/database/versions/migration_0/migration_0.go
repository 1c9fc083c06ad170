package migration_0

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PredictionRecord struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	ModelName    string `gorm:"size:255;not null"`
	ModelVersion string `gorm:"size:32;not null"`
	ModelFlavor  string `gorm:"size:32"`

	Inputs     datatypes.JSON `gorm:"type:jsonb;not null"`
	Prediction float64

	CreationTime time.Time `gorm:"index"`
}

func Migration(db *gorm.DB) error {
	return db.AutoMigrate(&PredictionRecord{})
}

func Rollback(db *gorm.DB) error {
	return db.Migrator().DropTable(&PredictionRecord{})
}
