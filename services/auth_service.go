package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/darlington872/lastman55444-sub000/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	FullName   string  `json:"fullName" validate:"required,min=3,max=255"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6,max=72"`
	ReferredBy *string `json:"referredBy" validate:"omitempty,max=64"`
}

// RegisterUser creates an account. A referredBy value equal to the ADMIN_CODE
// setting takes the privileged path and creates an admin without referral
// attribution; any other value is treated as a referral code.
func RegisterUser(db *gorm.DB, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validate.Struct(in); err != nil {
		return nil, newError(KindValidation, "%s", err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user models.User
	var activities []models.Activity
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return newError(KindConflict, "email already exists")
		}

		settings, err := LoadSettings(tx)
		if err != nil {
			return err
		}

		code, err := utils.GenerateUniqueReferralCode(tx)
		if err != nil {
			return err
		}

		user = models.User{
			FullName:     in.FullName,
			Email:        in.Email,
			Password:     string(hashedPassword),
			ReferralCode: code,
			KycStatus:    models.KycStatusPending,
		}

		referredBy := ""
		if in.ReferredBy != nil {
			referredBy = strings.TrimSpace(*in.ReferredBy)
		}

		if isAdminCode(settings.AdminCode, referredBy) {
			return registerAdmin(tx, &user, &activities)
		}
		return registerWithReferral(tx, &user, referredBy, &activities)
	})
	if err != nil {
		return nil, err
	}
	publishActivities(activities...)
	return &user, nil
}

func isAdminCode(adminCode, supplied string) bool {
	if adminCode == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(adminCode), []byte(supplied)) == 1
}

// registerAdmin is the privileged registration path. The admin code is never
// stored as a referral.
func registerAdmin(tx *gorm.DB, user *models.User, activities *[]models.Activity) error {
	user.IsAdmin = true
	if err := tx.Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	act, err := appendActivity(tx, &user.ID, "Registered as administrator", "Completed", nil)
	if err != nil {
		return err
	}
	*activities = append(*activities, act)
	logger.Log.Warn("admin account registered with admin code", zap.String("email", user.Email))
	return nil
}

func registerWithReferral(tx *gorm.DB, user *models.User, referredBy string, activities *[]models.Activity) error {
	if referredBy != "" {
		code := strings.ToUpper(referredBy)
		user.ReferredBy = &code
	}
	if err := tx.Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	act, err := appendActivity(tx, &user.ID, "Created account", "Completed", nil)
	if err != nil {
		return err
	}
	*activities = append(*activities, act)

	if user.ReferredBy == nil {
		return nil
	}
	referrerAct, err := attributeReferral(tx, user, *user.ReferredBy)
	if err != nil {
		return err
	}
	if referrerAct != nil {
		*activities = append(*activities, *referrerAct)
	} else {
		// Unknown code: do not keep a dangling attribution.
		user.ReferredBy = nil
		if err := tx.Model(user).Update("referred_by", nil).Error; err != nil {
			return fmt.Errorf("clear referral code: %w", err)
		}
	}
	return nil
}

// Authenticate checks credentials. Banned accounts are refused.
func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, newError(KindUnauthorized, "invalid email or password")
	}
	if user.IsBanned {
		return nil, newError(KindForbidden, "this account has been suspended")
	}
	return &user, nil
}
