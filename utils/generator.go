package utils

import (
	"errors"
	"math/rand"

	"github.com/darlington872/lastman55444-sub000/models"
	"gorm.io/gorm"
)

const referralCodeLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const maxCodeAttempts = 20

func GenerateReferralCode() string {
	b := make([]byte, referralCodeLength)
	for i := range b {
		b[i] = letterBytes[rand.Intn(len(letterBytes))]
	}
	return string(b)
}

func GenerateUniqueReferralCode(tx *gorm.DB) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := GenerateReferralCode()

		var count int64
		if err := tx.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("failed to generate unique referral code")
}
