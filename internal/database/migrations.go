package database

import (
	"gorm.io/gorm"

	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.ServiceProblem{},
		&models.Booking{},
	)
	if err != nil {
		return err
	}

	// Enforce the enum-valued columns at the database level
	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('customer', 'admin', 'operator'))`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'assigned', 'in-progress', 'completed', 'cancelled'))`).Error; err != nil {
			return err
		}

		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_rating_score_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_rating_score_check CHECK (rating_score IS NULL OR (rating_score >= 1 AND rating_score <= 5))`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Service{}) {
		db.Exec(`ALTER TABLE services DROP CONSTRAINT IF EXISTS services_vehicle_type_check`)
		if err := db.Exec(`ALTER TABLE services ADD CONSTRAINT services_vehicle_type_check CHECK (vehicle_type IN ('2-wheeler', '3-wheeler', '4-wheeler'))`).Error; err != nil {
			return err
		}
	}

	return nil
}
