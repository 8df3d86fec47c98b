package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateOrderInput struct {
	UserID           uuid.UUID
	PhoneNumberID    uuid.UUID
	IsReferralReward bool
	PaymentMethod    string
}

// ContactLink is the pre-filled support message shown after ordering. It is
// presentation only.
type ContactLink struct {
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsappUrl,omitempty"`
}

type OrderResult struct {
	Order   models.Order `json:"order"`
	Contact ContactLink  `json:"contact"`
}

// CreateOrder buys a phone number with the user's balance, or claims it with
// referral credits. Every mutation happens in one transaction with the user and
// phone-number rows locked.
func CreateOrder(db *gorm.DB, in CreateOrderInput) (*OrderResult, error) {
	kind := "purchase"
	if in.IsReferralReward {
		kind = "referral"
	}

	var result OrderResult
	var activity models.Activity
	var settings Settings
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		settings, err = LoadSettings(tx)
		if err != nil {
			return err
		}

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", in.UserID).Error; err != nil {
			return notFoundOr(err, "user")
		}

		var phone models.PhoneNumber
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&phone, "id = ?", in.PhoneNumberID).Error; err != nil {
			return notFoundOr(err, "phone number")
		}
		if !phone.IsAvailable {
			return newError(KindUnavailable, "phone number %s is no longer available", phone.Number)
		}

		order := models.Order{
			UserID:           user.ID,
			PhoneNumberID:    phone.ID,
			Status:           models.OrderStatusPending,
			PaymentMethod:    in.PaymentMethod,
			IsReferralReward: in.IsReferralReward,
		}

		if in.IsReferralReward {
			if err := spendReferrals(tx, &user, settings); err != nil {
				return err
			}
			order.TotalAmount = decimal.Zero
			if order.PaymentMethod == "" {
				order.PaymentMethod = "referral"
			}
		} else {
			if err := spendBalance(tx, &user, phone.Price); err != nil {
				return err
			}
			order.TotalAmount = phone.Price
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		if !in.IsReferralReward || settings.ReferralClaimConsumesStock {
			if err := consumeStock(tx, &phone); err != nil {
				return err
			}
		}

		action := fmt.Sprintf("Purchased %s number %s", phone.Country, phone.Number)
		if in.IsReferralReward {
			action = "Claimed free number with referrals"
		}
		activity, err = appendActivity(tx, &user.ID, action, "Completed", strPtr(order.ID.String()))
		if err != nil {
			return err
		}

		order.User = &user
		order.PhoneNumber = &phone
		result.Order = order
		return nil
	})
	ordersTotal.WithLabelValues(kind, outcomeLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	result.Contact = buildContactLink(result.Order, settings.SupportWhatsApp)
	publishActivities(activity)
	logger.Log.Info("order created",
		zap.String("order_id", result.Order.ID.String()),
		zap.String("user_id", in.UserID.String()),
		zap.Bool("referral", in.IsReferralReward),
		zap.String("amount", result.Order.TotalAmount.String()))
	return &result, nil
}

// spendReferrals consumes exactly settings.ReferralsNeeded referrals; any
// excess rolls over.
func spendReferrals(tx *gorm.DB, user *models.User, settings Settings) error {
	needed := settings.ReferralsNeeded
	if settings.KycRequiredForReferral && user.KycStatus != models.KycStatusApproved {
		return newError(KindKycRequired, "KYC verification must be approved before claiming a free number")
	}
	if user.ReferralCount < needed {
		return insufficientReferrals(user.ReferralCount, needed)
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND referral_count >= ?", user.ID, needed).
		Update("referral_count", gorm.Expr("referral_count - ?", needed))
	if res.Error != nil {
		return fmt.Errorf("decrement referral count: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return insufficientReferrals(user.ReferralCount, needed)
	}
	user.ReferralCount -= needed
	return nil
}

func insufficientReferrals(current, required int) error {
	return &LedgerError{
		Kind:     KindInsufficientReferrals,
		Message:  fmt.Sprintf("you need %d referrals to claim a free number, you have %d", required, current),
		Current:  current,
		Required: required,
	}
}

func spendBalance(tx *gorm.DB, user *models.User, price decimal.Decimal) error {
	if user.Balance.LessThan(price) {
		return insufficientBalance(user.Balance, price)
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND balance >= ?", user.ID, price).
		Update("balance", gorm.Expr("balance - ?", price))
	if res.Error != nil {
		return fmt.Errorf("debit balance: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return insufficientBalance(user.Balance, price)
	}
	user.Balance = user.Balance.Sub(price)
	return nil
}

func insufficientBalance(current, required decimal.Decimal) error {
	return &LedgerError{
		Kind:     KindInsufficientBalance,
		Message:  fmt.Sprintf("insufficient balance: have %s, need %s", current.StringFixed(2), required.StringFixed(2)),
		Current:  current,
		Required: required,
	}
}

// consumeStock flips the number out of the available pool. The guard on
// is_available makes a second buyer fail even if the row lock is unsupported.
func consumeStock(tx *gorm.DB, phone *models.PhoneNumber) error {
	res := tx.Model(&models.PhoneNumber{}).
		Where("id = ? AND is_available = ?", phone.ID, true).
		Update("is_available", false)
	if res.Error != nil {
		return fmt.Errorf("mark phone number sold: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return newError(KindUnavailable, "phone number %s is no longer available", phone.Number)
	}
	phone.IsAvailable = false
	return nil
}

func buildContactLink(order models.Order, supportNumber string) ContactLink {
	number, country := "", ""
	if order.PhoneNumber != nil {
		number, country = order.PhoneNumber.Number, order.PhoneNumber.Country
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "Hello, I just placed order %s for the %s number %s.", order.ID, country, number)
	if order.IsReferralReward {
		msg.WriteString(" It is a referral reward claim.")
	} else {
		fmt.Fprintf(&msg, " Amount paid: %s.", order.TotalAmount.StringFixed(2))
	}
	msg.WriteString(" Please send my verification code.")

	link := ContactLink{Message: msg.String()}
	if supportNumber != "" {
		link.WhatsAppURL = fmt.Sprintf("https://wa.me/%s?text=%s", supportNumber, url.QueryEscape(link.Message))
	}
	return link
}

// ListUserOrders returns the user's orders newest first with their phone numbers.
func ListUserOrders(db *gorm.DB, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("PhoneNumber").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

type AdminOrderUpdate struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending completed rejected"`
	Code   *string `json:"code" validate:"omitempty,max=255"`
}

type OrderUpdateResult struct {
	Order         models.Order
	JustCompleted bool
}

// AdminUpdateOrder sets the order status and/or fulfilment code. It never
// touches balances or stock.
func AdminUpdateOrder(db *gorm.DB, adminID, orderID uuid.UUID, upd AdminOrderUpdate) (*OrderUpdateResult, error) {
	if err := validate.Struct(upd); err != nil {
		return nil, newError(KindValidation, "%s", err.Error())
	}
	if upd.Status == nil && upd.Code == nil {
		return nil, newError(KindValidation, "nothing to update: provide status and/or code")
	}

	var result OrderUpdateResult
	var activities []models.Activity
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", orderID).Error; err != nil {
			return notFoundOr(err, "order")
		}

		previous := order.Status
		updates := map[string]interface{}{}
		if upd.Status != nil {
			updates["status"] = *upd.Status
			order.Status = *upd.Status
		}
		if upd.Code != nil {
			updates["code"] = *upd.Code
			order.Code = upd.Code
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		adminAct, err := appendActivity(tx, &adminID,
			fmt.Sprintf("Updated order %s", order.ID), "Completed",
			strPtr(fmt.Sprintf("status: %s -> %s", previous, order.Status)))
		if err != nil {
			return err
		}
		activities = append(activities, adminAct)

		if order.Status == models.OrderStatusCompleted && previous != models.OrderStatusCompleted {
			result.JustCompleted = true
			userAct, err := appendActivity(tx, &order.UserID, "Order fulfilled", "Completed", strPtr(order.ID.String()))
			if err != nil {
				return err
			}
			activities = append(activities, userAct)
		}

		if err := tx.Preload("User").Preload("PhoneNumber").First(&order, "id = ?", order.ID).Error; err != nil {
			return fmt.Errorf("reload order: %w", err)
		}
		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishActivities(activities...)
	return &result, nil
}

type OrderFilter struct {
	Status string
	Limit  int
	Offset int
}

func ListOrders(db *gorm.DB, f OrderFilter) ([]models.Order, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		if f.Status != "" {
			return q.Where("status = ?", f.Status)
		}
		return q
	}

	var total int64
	if err := filter(db.Model(&models.Order{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	var orders []models.Order
	err := filter(db.Model(&models.Order{})).
		Preload("User").Preload("PhoneNumber").
		Order("created_at desc").Limit(f.Limit).Offset(f.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}
