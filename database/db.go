package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"moneyticket-demo/logger"
	"moneyticket-demo/models/demo"
)

var DB *gorm.DB

// InitDB opens the PostgreSQL connection and migrates the demo tables.
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file found - relying on environment variables")
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := DB.AutoMigrate(
		&demo.Session{},
		&demo.SmsVerification{},
		&demo.DiagnosisSession{},
		&demo.AccessLog{},
	); err != nil {
		logger.Error("Failed to migrate demo tables", err)
		return nil, err
	}
	logger.Success("Demo table migrations completed")

	return DB, nil
}
