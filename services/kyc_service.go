package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KycSubmission struct {
	FullName         string  `json:"fullName" validate:"required,min=3,max=255"`
	DocumentType     string  `json:"documentType" validate:"required,oneof=passport national_id drivers_license"`
	DocumentNumber   string  `json:"documentNumber" validate:"required,max=100"`
	DocumentFrontURL string  `json:"documentFrontUrl" validate:"required,url"`
	DocumentBackURL  *string `json:"documentBackUrl" validate:"omitempty,url"`
	SelfieURL        *string `json:"selfieUrl" validate:"omitempty,url"`
}

// SubmitKyc creates the user's KYC record, or replaces the documents of a
// rejected one. Pending and approved records cannot be resubmitted.
func SubmitKyc(db *gorm.DB, userID uuid.UUID, sub KycSubmission) (*models.Kyc, error) {
	if err := validate.Struct(sub); err != nil {
		return nil, newError(KindValidation, "%s", err.Error())
	}

	var kyc models.Kyc
	var activity models.Activity
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return notFoundOr(err, "user")
		}

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&kyc, "user_id = ?", userID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			kyc = models.Kyc{UserID: userID}
		case err != nil:
			return fmt.Errorf("load kyc: %w", err)
		case kyc.Status != models.KycStatusRejected:
			return newError(KindConflict, "KYC documents already submitted (status: %s)", kyc.Status)
		}

		kyc.FullName = strings.TrimSpace(sub.FullName)
		kyc.DocumentType = sub.DocumentType
		kyc.DocumentNumber = strings.TrimSpace(sub.DocumentNumber)
		kyc.DocumentFrontURL = sub.DocumentFrontURL
		kyc.DocumentBackURL = sub.DocumentBackURL
		kyc.SelfieURL = sub.SelfieURL
		kyc.Status = models.KycStatusPending
		kyc.AdminNotes = nil
		if err := tx.Save(&kyc).Error; err != nil {
			return fmt.Errorf("save kyc: %w", err)
		}

		activity, err = appendActivity(tx, &userID, "Submitted KYC documents", "Pending", nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	publishActivities(activity)
	return &kyc, nil
}

func GetUserKyc(db *gorm.DB, userID uuid.UUID) (*models.Kyc, error) {
	var kyc models.Kyc
	if err := db.First(&kyc, "user_id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "kyc submission")
	}
	return &kyc, nil
}

func ListKyc(db *gorm.DB, status string) ([]models.Kyc, error) {
	query := db.Preload("User").Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var records []models.Kyc
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list kyc: %w", err)
	}
	return records, nil
}

type KycUpdateResult struct {
	Kyc  models.Kyc
	User models.User
}

// AdminUpdateKyc records the admin decision and mirrors approved/rejected onto
// the user. Only approval marks the user verified.
func AdminUpdateKyc(db *gorm.DB, adminID, kycID uuid.UUID, newStatus string, notes *string) (*KycUpdateResult, error) {
	if err := validate.Var(newStatus, "required,oneof=pending approved rejected"); err != nil {
		return nil, newError(KindValidation, "status must be one of pending, approved, rejected")
	}

	var result KycUpdateResult
	var activities []models.Activity
	err := db.Transaction(func(tx *gorm.DB) error {
		var kyc models.Kyc
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&kyc, "id = ?", kycID).Error; err != nil {
			return notFoundOr(err, "kyc submission")
		}

		previous := kyc.Status
		updates := map[string]interface{}{"status": newStatus}
		if notes != nil {
			updates["admin_notes"] = *notes
			kyc.AdminNotes = notes
		}
		if err := tx.Model(&kyc).Updates(updates).Error; err != nil {
			return fmt.Errorf("update kyc: %w", err)
		}
		kyc.Status = newStatus

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", kyc.UserID).Error; err != nil {
			return notFoundOr(err, "user")
		}

		if newStatus == models.KycStatusApproved || newStatus == models.KycStatusRejected {
			userUpdates := map[string]interface{}{"kyc_status": newStatus}
			if newStatus == models.KycStatusApproved {
				userUpdates["is_verified"] = true
				user.IsVerified = true
			}
			if err := tx.Model(&user).Updates(userUpdates).Error; err != nil {
				return fmt.Errorf("mirror kyc status: %w", err)
			}
			user.KycStatus = newStatus

			userAct, err := appendActivity(tx, &user.ID, "KYC verification", statusTitle(newStatus), notes)
			if err != nil {
				return err
			}
			activities = append(activities, userAct)
		}

		adminAct, err := appendActivity(tx, &adminID,
			fmt.Sprintf("Updated KYC %s", kyc.ID), "Completed",
			strPtr(fmt.Sprintf("status: %s -> %s", previous, newStatus)))
		if err != nil {
			return err
		}
		activities = append(activities, adminAct)

		result.Kyc = kyc
		result.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	kycReviewsTotal.WithLabelValues(newStatus).Inc()
	publishActivities(activities...)
	return &result, nil
}

func statusTitle(status string) string {
	if status == "" {
		return status
	}
	return strings.ToUpper(status[:1]) + status[1:]
}
