package database

import (
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Driver{},
		&models.Trip{},
		&models.SubstituteDriver{},
		&models.DriverRentLog{},
		&models.WeeklySettlement{},
	)
	if err != nil {
		return err
	}

	// The engine relies on these two indexes for idempotence: duplicate
	// ledger rows for a driver-day-shift and duplicate settlements for a
	// vehicle-week must be impossible at the storage layer, not just the
	// application layer.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_rent_logs_driver_date_shift
		ON driver_rent_logs (driver_id, date, shift)`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_settlements_vehicle_week
		ON weekly_settlements (vehicle_id, week_start, week_end)`).Error; err != nil {
		return err
	}

	// Update vehicles table
	if db.Migrator().HasTable(&models.Vehicle{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS document_url text DEFAULT ''",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE vehicles " + column).Error; err != nil {
				return err
			}
		}

		db.Exec(`ALTER TABLE vehicles DROP CONSTRAINT IF EXISTS vehicles_provider_check`)
		db.Exec(`ALTER TABLE vehicles ADD CONSTRAINT vehicles_provider_check CHECK (provider IN ('provider_a', 'provider_b'))`)
	}

	// Trips must never record a negative count
	if db.Migrator().HasTable(&models.Trip{}) {
		db.Exec(`ALTER TABLE trips DROP CONSTRAINT IF EXISTS trips_trip_count_check`)
		db.Exec(`ALTER TABLE trips ADD CONSTRAINT trips_trip_count_check CHECK (trip_count >= 0)`)
	}

	return nil
}
