package database_test

import (
	"context"
	"testing"
	"time"

	"weather-forecaster/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func createDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	return db
}

func TestSaveAndListPredictions(t *testing.T) {
	db := createDB(t)
	ctx := context.Background()

	first, err := database.SavePrediction(ctx, db, "weather-forecaster", "3", "go_linear", database.PredictionInputs{TodayTemp: 20, Humidity: 60, WindSpeed: 10}, 21.5)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	second, err := database.SavePrediction(ctx, db, "weather-forecaster", "3", "go_linear", database.PredictionInputs{TodayTemp: 10, Humidity: 80, WindSpeed: 5}, 11.25)
	require.NoError(t, err)

	records, err := database.ListPredictions(ctx, db, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.Id, records[0].Id)
	assert.Equal(t, first.Id, records[1].Id)

	inputs, err := records[1].DecodeInputs()
	require.NoError(t, err)
	assert.Equal(t, database.PredictionInputs{TodayTemp: 20, Humidity: 60, WindSpeed: 10}, inputs)
	assert.Equal(t, 21.5, records[1].Prediction)
	assert.Equal(t, "3", records[1].ModelVersion)

	records, err = database.ListPredictions(ctx, db, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second.Id, records[0].Id)
}

func TestMigrationRollback(t *testing.T) {
	db := createDB(t)

	assert.True(t, db.Migrator().HasTable(&database.PredictionRecord{}))
	require.NoError(t, database.GetMigrator(db).RollbackLast())
	assert.False(t, db.Migrator().HasTable(&database.PredictionRecord{}))
}

func TestNewDatabaseSqlite(t *testing.T) {
	db, err := database.NewDatabase(t.TempDir() + "/db/predictions.db")
	require.NoError(t, err)

	_, err = database.SavePrediction(context.Background(), db, "m", "1", "onnx", database.PredictionInputs{}, 1)
	require.NoError(t, err)
}
