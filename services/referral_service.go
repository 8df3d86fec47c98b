package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// attributeReferral credits the owner of code with one referral for newUser.
// Unknown codes are ignored. It returns the referrer's activity, if any.
func attributeReferral(tx *gorm.DB, newUser *models.User, code string) (*models.Activity, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	var referrer models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("referral_code = ? AND id <> ?", strings.ToUpper(code), newUser.ID).
		First(&referrer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Log.Info("ignoring unknown referral code", zap.String("code", code))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load referrer: %w", err)
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", referrer.ID).
		Update("referral_count", gorm.Expr("referral_count + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("increment referral count: %w", res.Error)
	}

	referral := models.Referral{
		ReferrerID:     referrer.ID,
		ReferredUserID: newUser.ID,
		Code:           referrer.ReferralCode,
	}
	if err := tx.Create(&referral).Error; err != nil {
		return nil, fmt.Errorf("record referral: %w", err)
	}

	activity, err := appendActivity(tx, &referrer.ID, "New referral signup", "Completed", strPtr(newUser.FullName))
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

type ReferralSummary struct {
	ReferralCode          string `json:"referralCode"`
	ReferralCount         int    `json:"referralCount"`
	ReferralsNeeded       int    `json:"referralsNeeded"`
	KycRequired           bool   `json:"kycRequired"`
	KycStatus             string `json:"kycStatus"`
	CanClaim              bool   `json:"canClaim"`
	ReferralWalletBalance string `json:"referralWalletBalance"`
	TotalReferred         int64  `json:"totalReferred"`
}

// GetReferralSummary reports the user's progress towards a free number using
// the same rules CreateOrder enforces.
func GetReferralSummary(db *gorm.DB, userID uuid.UUID) (*ReferralSummary, error) {
	settings, err := LoadSettings(db)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}

	var total int64
	if err := db.Model(&models.Referral{}).Where("referrer_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count referrals: %w", err)
	}

	kycOK := !settings.KycRequiredForReferral || user.KycStatus == models.KycStatusApproved
	return &ReferralSummary{
		ReferralCode:          user.ReferralCode,
		ReferralCount:         user.ReferralCount,
		ReferralsNeeded:       settings.ReferralsNeeded,
		KycRequired:           settings.KycRequiredForReferral,
		KycStatus:             user.KycStatus,
		CanClaim:              kycOK && user.ReferralCount >= settings.ReferralsNeeded,
		ReferralWalletBalance: user.ReferralWalletBalance.StringFixed(2),
		TotalReferred:         total,
	}, nil
}
