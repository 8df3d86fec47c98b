package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/darlington872/lastman55444-sub000/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB(dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	DB = db
	logger.Log.Info("database connected")
	return nil
}

// Models lists every table the application owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.PhoneNumber{},
		&models.Order{},
		&models.Payment{},
		&models.Kyc{},
		&models.Activity{},
		&models.Setting{},
		&models.Referral{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Log.Info("database migration successful")
	return nil
}

// SeedAdmin creates the bootstrap admin account when no user has the given email.
func SeedAdmin(db *gorm.DB, email, password, fullName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		logger.Log.Warn("admin credentials not configured, skipping admin seed")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		logger.Log.Info("admin user already exists", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		code, err := utils.GenerateUniqueReferralCode(tx)
		if err != nil {
			return err
		}
		admin := models.User{
			FullName:     fullName,
			Email:        email,
			Password:     string(hashedPassword),
			ReferralCode: code,
			IsAdmin:      true,
			IsVerified:   true,
			KycStatus:    models.KycStatusApproved,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		logger.Log.Info("admin user seeded", zap.String("email", email))
		return nil
	})
}
