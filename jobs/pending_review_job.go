package jobs

import (
	"fmt"

	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/darlington872/lastman55444-sub000/notifications"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mailer delivers a message; notifications.SendEmail in production.
type Mailer func(toName, toEmail, subject, htmlContent string)

type PendingCounts struct {
	Payments int64
	Kyc      int64
}

func CountPendingReviews(db *gorm.DB) (PendingCounts, error) {
	var counts PendingCounts
	if err := db.Model(&models.Payment{}).Where("status = ?", models.PaymentStatusPending).Count(&counts.Payments).Error; err != nil {
		return counts, fmt.Errorf("count pending payments: %w", err)
	}
	if err := db.Model(&models.Kyc{}).Where("status = ?", models.KycStatusPending).Count(&counts.Kyc).Error; err != nil {
		return counts, fmt.Errorf("count pending kyc: %w", err)
	}
	return counts, nil
}

// SendPendingReviewDigest mails every admin a summary of work waiting for
// review. Nothing is sent when the queues are empty. It returns the number of
// admins notified.
func SendPendingReviewDigest(db *gorm.DB, send Mailer) (int, error) {
	counts, err := CountPendingReviews(db)
	if err != nil {
		return 0, err
	}
	if counts.Payments == 0 && counts.Kyc == 0 {
		return 0, nil
	}

	var admins []models.User
	if err := db.Where("is_admin = ? AND is_banned = ?", true, false).Find(&admins).Error; err != nil {
		return 0, fmt.Errorf("load admins: %w", err)
	}

	subject, body := notifications.PendingReviewDigestEmail(counts.Payments, counts.Kyc)
	for _, admin := range admins {
		send(admin.FullName, admin.Email, subject, body)
	}
	return len(admins), nil
}

// PendingReviewDigest is the cron entry point.
func PendingReviewDigest() {
	notified, err := SendPendingReviewDigest(database.DB, notifications.SendEmail)
	if err != nil {
		logger.Log.Error("pending review digest failed", zap.Error(err))
		return
	}
	if notified > 0 {
		logger.Log.Info("pending review digest sent", zap.Int("admins", notified))
	}
}
