package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PredictionRecord struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	ModelName    string `gorm:"size:255;not null"`
	ModelVersion string `gorm:"size:32;not null"`
	ModelFlavor  string `gorm:"size:32"`

	Inputs     datatypes.JSON `gorm:"type:jsonb;not null"` // {"today_temp":…,"humidity":…,"wind_speed":…}
	Prediction float64

	CreationTime time.Time `gorm:"index"`
}
