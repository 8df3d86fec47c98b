package services

import (
	"fmt"

	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreatePaymentInput struct {
	UserID    uuid.UUID
	Amount    decimal.Decimal `validate:"required,gt=0"`
	Method    string          `validate:"required,max=50"`
	OrderID   *uuid.UUID
	Reference *string `validate:"omitempty,max=255"`
}

// CreatePayment records a pending payment for manual verification. An order
// reference must belong to the paying user.
func CreatePayment(db *gorm.DB, in CreatePaymentInput) (*models.Payment, error) {
	if err := validate.Struct(in); err != nil {
		return nil, newError(KindValidation, "%s", err.Error())
	}
	if err := checkMoney("amount", in.Amount); err != nil {
		return nil, err
	}

	var payment models.Payment
	var activity models.Activity
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", in.UserID).Count(&count).Error; err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if count == 0 {
			return newError(KindNotFound, "user not found")
		}

		if in.OrderID != nil {
			var order models.Order
			if err := tx.First(&order, "id = ? AND user_id = ?", *in.OrderID, in.UserID).Error; err != nil {
				return notFoundOr(err, "order")
			}
		}

		payment = models.Payment{
			UserID:    in.UserID,
			OrderID:   in.OrderID,
			Amount:    in.Amount,
			Method:    in.Method,
			Status:    models.PaymentStatusPending,
			Reference: in.Reference,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		var err error
		activity, err = appendActivity(tx, &in.UserID,
			fmt.Sprintf("Submitted %s payment of %s", in.Method, in.Amount.StringFixed(2)),
			"Pending", strPtr(payment.ID.String()))
		return err
	})
	if err != nil {
		return nil, err
	}
	publishActivities(activity)
	return &payment, nil
}

func ListUserPayments(db *gorm.DB, userID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

type PaymentFilter struct {
	Status string
	Limit  int
	Offset int
}

func ListPayments(db *gorm.DB, f PaymentFilter) ([]models.Payment, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		if f.Status != "" {
			return q.Where("status = ?", f.Status)
		}
		return q
	}

	var total int64
	if err := filter(db.Model(&models.Payment{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	var payments []models.Payment
	err := filter(db.Model(&models.Payment{})).
		Preload("User").
		Order("created_at desc").Limit(f.Limit).Offset(f.Offset).
		Find(&payments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return payments, total, nil
}

type PaymentUpdateResult struct {
	Payment models.Payment `json:"payment"`
	User    models.User    `json:"-"`
	// AlreadyProcessed is set when a completed payment was completed again.
	AlreadyProcessed bool `json:"alreadyProcessed"`
	Credited         bool `json:"credited"`
	OrderCompleted   bool `json:"orderCompleted"`
}

// AdminUpdatePayment applies an admin decision. Completing a top-up credits
// the balance; completing an order payment completes the order. A completed
// payment is terminal: completing it again changes nothing.
func AdminUpdatePayment(db *gorm.DB, adminID, paymentID uuid.UUID, newStatus string) (*PaymentUpdateResult, error) {
	if err := validate.Var(newStatus, "required,oneof=pending completed rejected"); err != nil {
		return nil, newError(KindValidation, "status must be one of pending, completed, rejected")
	}

	var result PaymentUpdateResult
	var activities []models.Activity
	err := db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, "id = ?", paymentID).Error; err != nil {
			return notFoundOr(err, "payment")
		}

		if payment.Status == models.PaymentStatusCompleted {
			if newStatus == models.PaymentStatusCompleted {
				result.AlreadyProcessed = true
				result.Payment = payment
				return tx.First(&result.User, "id = ?", payment.UserID).Error
			}
			return newError(KindInvalidTransition, "payment %s is already completed and cannot be moved to %s", payment.ID, newStatus)
		}

		previous := payment.Status
		payment.Status = newStatus
		if err := tx.Model(&payment).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("update payment: %w", err)
		}

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", payment.UserID).Error; err != nil {
			return notFoundOr(err, "user")
		}

		if newStatus == models.PaymentStatusCompleted {
			if payment.OrderID == nil {
				if err := checkMoney("balance", user.Balance.Add(payment.Amount)); err != nil {
					return err
				}
				res := tx.Model(&models.User{}).
					Where("id = ?", user.ID).
					Update("balance", gorm.Expr("balance + ?", payment.Amount))
				if res.Error != nil {
					return fmt.Errorf("credit balance: %w", res.Error)
				}
				user.Balance = user.Balance.Add(payment.Amount)
				result.Credited = true

				act, err := appendActivity(tx, &user.ID, "Added funds to account", "Completed",
					strPtr(fmt.Sprintf("%s via %s", payment.Amount.StringFixed(2), payment.Method)))
				if err != nil {
					return err
				}
				activities = append(activities, act)
			} else {
				res := tx.Model(&models.Order{}).
					Where("id = ? AND status = ?", *payment.OrderID, models.OrderStatusPending).
					Update("status", models.OrderStatusCompleted)
				if res.Error != nil {
					return fmt.Errorf("complete order: %w", res.Error)
				}
				result.OrderCompleted = res.RowsAffected == 1

				act, err := appendActivity(tx, &user.ID, "Order payment confirmed", "Completed", strPtr(payment.OrderID.String()))
				if err != nil {
					return err
				}
				activities = append(activities, act)
			}
		}

		adminAct, err := appendActivity(tx, &adminID,
			fmt.Sprintf("Updated payment %s", payment.ID), "Completed",
			strPtr(fmt.Sprintf("status: %s -> %s", previous, newStatus)))
		if err != nil {
			return err
		}
		activities = append(activities, adminAct)

		result.Payment = payment
		result.User = user
		return nil
	})

	effect := "none"
	switch {
	case err != nil:
		effect = outcomeLabel(err)
	case result.AlreadyProcessed:
		effect = "duplicate"
	case result.Credited:
		effect = "credited"
	case result.OrderCompleted:
		effect = "order_completed"
	}
	paymentReviewsTotal.WithLabelValues(newStatus, effect).Inc()
	if err != nil {
		return nil, err
	}

	publishActivities(activities...)
	logger.Log.Info("payment reviewed",
		zap.String("payment_id", paymentID.String()),
		zap.String("status", newStatus),
		zap.String("effect", effect))
	return &result, nil
}
