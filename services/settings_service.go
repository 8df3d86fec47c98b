package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/darlington872/lastman55444-sub000/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SettingReferralsNeeded            = "REFERRALS_NEEDED"
	SettingKycRequiredForReferral     = "KYC_REQUIRED_FOR_REFERRAL"
	SettingAdminCode                  = "ADMIN_CODE"
	SettingReferralClaimConsumesStock = "REFERRAL_CLAIM_CONSUMES_STOCK"
	SettingSupportWhatsApp            = "SUPPORT_WHATSAPP"
)

var validate = utils.NewValidator()

type Settings struct {
	ReferralsNeeded            int    `json:"referralsNeeded"`
	KycRequiredForReferral     bool   `json:"kycRequiredForReferral"`
	AdminCode                  string `json:"adminCode"`
	ReferralClaimConsumesStock bool   `json:"referralClaimConsumesStock"`
	SupportWhatsApp            string `json:"supportWhatsApp"`
}

func DefaultSettings() Settings {
	return Settings{
		ReferralsNeeded:        20,
		KycRequiredForReferral: true,
	}
}

// rows renders s as the persisted key/value form.
func (s Settings) rows() map[string]string {
	return map[string]string{
		SettingReferralsNeeded:            strconv.Itoa(s.ReferralsNeeded),
		SettingKycRequiredForReferral:     strconv.FormatBool(s.KycRequiredForReferral),
		SettingAdminCode:                  s.AdminCode,
		SettingReferralClaimConsumesStock: strconv.FormatBool(s.ReferralClaimConsumesStock),
		SettingSupportWhatsApp:            s.SupportWhatsApp,
	}
}

// apply parses one stored value onto s. Unknown keys are ignored.
func (s *Settings) apply(key, raw string) error {
	raw = strings.TrimSpace(raw)
	switch key {
	case SettingReferralsNeeded:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, raw)
		}
		s.ReferralsNeeded = n
	case SettingKycRequiredForReferral:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be a boolean, got %q", key, raw)
		}
		s.KycRequiredForReferral = b
	case SettingReferralClaimConsumesStock:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be a boolean, got %q", key, raw)
		}
		s.ReferralClaimConsumesStock = b
	case SettingAdminCode:
		s.AdminCode = raw
	case SettingSupportWhatsApp:
		s.SupportWhatsApp = raw
	}
	return nil
}

// LoadSettings reads every stored setting into the typed struct. Malformed
// values keep their defaults.
func LoadSettings(db *gorm.DB) (Settings, error) {
	settings := DefaultSettings()

	var rows []models.Setting
	if err := db.Find(&rows).Error; err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}
	for _, row := range rows {
		if err := settings.apply(row.Key, row.Value); err != nil {
			logger.Log.Warn("ignoring malformed setting", zap.String("key", row.Key), zap.Error(err))
		}
	}
	return settings, nil
}

// EnsureDefaultSettings inserts the default value of every key that is not stored yet.
func EnsureDefaultSettings(db *gorm.DB) error {
	for key, value := range DefaultSettings().rows() {
		row := models.Setting{Key: key, Value: value}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}
	return nil
}

type SettingsUpdate struct {
	ReferralsNeeded            *int    `json:"referralsNeeded" validate:"omitempty,min=1,max=100000"`
	KycRequiredForReferral     *bool   `json:"kycRequiredForReferral"`
	AdminCode                  *string `json:"adminCode" validate:"omitempty,min=4,max=64"`
	ReferralClaimConsumesStock *bool   `json:"referralClaimConsumesStock"`
	SupportWhatsApp            *string `json:"supportWhatsApp" validate:"omitempty,numeric,max=20"`
}

func UpdateSettings(db *gorm.DB, adminID uuid.UUID, upd SettingsUpdate) (Settings, error) {
	if err := validate.Struct(upd); err != nil {
		return Settings{}, newError(KindValidation, "%s", err.Error())
	}

	var updated Settings
	var activity models.Activity
	err := db.Transaction(func(tx *gorm.DB) error {
		current, err := LoadSettings(tx)
		if err != nil {
			return err
		}
		if upd.ReferralsNeeded != nil {
			current.ReferralsNeeded = *upd.ReferralsNeeded
		}
		if upd.KycRequiredForReferral != nil {
			current.KycRequiredForReferral = *upd.KycRequiredForReferral
		}
		if upd.AdminCode != nil {
			current.AdminCode = *upd.AdminCode
		}
		if upd.ReferralClaimConsumesStock != nil {
			current.ReferralClaimConsumesStock = *upd.ReferralClaimConsumesStock
		}
		if upd.SupportWhatsApp != nil {
			current.SupportWhatsApp = *upd.SupportWhatsApp
		}

		now := time.Now()
		for key, value := range current.rows() {
			row := models.Setting{Key: key, Value: value, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("save setting %s: %w", key, err)
			}
		}

		activity, err = appendActivity(tx, &adminID, "Updated settings", "Completed", nil)
		if err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return Settings{}, err
	}
	publishActivities(activity)
	return updated, nil
}
