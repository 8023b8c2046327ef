package database

import (
	"fmt"
	"os"

	"github.com/volamoks/new-spots-sub000/logger"
	"github.com/volamoks/new-spots-sub000/models/booking"
	"github.com/volamoks/new-spots-sub000/models/log"
	"github.com/volamoks/new-spots-sub000/models/zone"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order
func autoMigrate() error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&zone.Zone{},
		&booking.BookingRequest{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models with dependencies on Stage 1
	stage2Models := []interface{}{
		&booking.Booking{},
		&booking.BookingStatusEvent{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Remaining models
	remainingModels := []interface{}{
		&log.AuditLog{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// Zone indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_zones_status ON zones(status)").Error; err != nil {
		return fmt.Errorf("failed to create zone status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_zones_city ON zones(city)").Error; err != nil {
		return fmt.Errorf("failed to create zone city index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_zones_macrozone ON zones(macrozone)").Error; err != nil {
		return fmt.Errorf("failed to create zone macrozone index: %w", err)
	}

	// Booking indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_request_status ON bookings(request_id, status)").Error; err != nil {
		return fmt.Errorf("failed to create booking request/status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_zone_status ON bookings(zone_id, status)").Error; err != nil {
		return fmt.Errorf("failed to create booking zone/status index: %w", err)
	}

	// Booking request indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_booking_requests_created_at ON booking_requests(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create booking request created_at index: %w", err)
	}

	return nil
}
