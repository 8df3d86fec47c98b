package services

import (
	"errors"
	"testing"

	"github.com/darlington872/lastman55444-sub000/database/dbtest"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := dbtest.New(t)
	require.NoError(t, EnsureDefaultSettings(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, mutate func(*models.User)) models.User {
	t.Helper()
	id := uuid.New()
	user := models.User{
		ID:           id,
		FullName:     "Test User",
		Email:        id.String()[:8] + "@example.com",
		Password:     "x",
		ReferralCode: id.String()[:8],
		KycStatus:    models.KycStatusPending,
	}
	if mutate != nil {
		mutate(&user)
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createPhoneNumber(t *testing.T, db *gorm.DB, price string) models.PhoneNumber {
	t.Helper()
	number := models.PhoneNumber{
		Number:      "+1555" + uuid.New().String()[:7],
		Country:     "United States",
		Service:     "whatsapp",
		Price:       decimal.RequireFromString(price),
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&number).Error)
	return number
}

func setSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	require.NoError(t, db.Save(&models.Setting{Key: key, Value: value}).Error)
}

func reloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return user
}

func reloadPhoneNumber(t *testing.T, db *gorm.DB, id uuid.UUID) models.PhoneNumber {
	t.Helper()
	var number models.PhoneNumber
	require.NoError(t, db.First(&number, "id = ?", id).Error)
	return number
}

func requireMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func requireKind(t *testing.T, err error, kind ErrorKind) *LedgerError {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
	var le *LedgerError
	require.True(t, errors.As(err, &le))
	return le
}

func countActivities(t *testing.T, db *gorm.DB, userID uuid.UUID, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Activity{}).Where("user_id = ? AND action = ?", userID, action).Count(&n).Error)
	return n
}
