package services

import (
	"fmt"
	"strings"

	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetUser(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

// AdminUserUpdate is the admin override payload. It bypasses ledger rules but
// still keeps balance and referral count non-negative.
type AdminUserUpdate struct {
	Balance       *decimal.Decimal `json:"balance" validate:"omitempty,gte=0"`
	IsAdmin       *bool            `json:"isAdmin"`
	IsBanned      *bool            `json:"isBanned"`
	ReferralCount *int             `json:"referralCount" validate:"omitempty,gte=0"`
}

func AdminUpdateUser(db *gorm.DB, adminID, userID uuid.UUID, upd AdminUserUpdate) (*models.User, error) {
	if err := validate.Struct(upd); err != nil {
		return nil, newError(KindValidation, "%s", err.Error())
	}
	if upd.Balance != nil {
		if upd.Balance.IsNegative() {
			return nil, newError(KindValidation, "balance must not be negative")
		}
		if err := checkMoney("balance", *upd.Balance); err != nil {
			return nil, err
		}
	}

	var user models.User
	var activity models.Activity
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error; err != nil {
			return notFoundOr(err, "user")
		}

		updates := map[string]interface{}{}
		var changes []string
		if upd.Balance != nil {
			updates["balance"] = *upd.Balance
			changes = append(changes, fmt.Sprintf("balance %s -> %s", user.Balance.StringFixed(2), upd.Balance.StringFixed(2)))
			user.Balance = *upd.Balance
		}
		if upd.IsAdmin != nil {
			updates["is_admin"] = *upd.IsAdmin
			changes = append(changes, fmt.Sprintf("isAdmin -> %t", *upd.IsAdmin))
			user.IsAdmin = *upd.IsAdmin
		}
		if upd.IsBanned != nil {
			updates["is_banned"] = *upd.IsBanned
			changes = append(changes, fmt.Sprintf("isBanned -> %t", *upd.IsBanned))
			user.IsBanned = *upd.IsBanned
		}
		if upd.ReferralCount != nil {
			updates["referral_count"] = *upd.ReferralCount
			changes = append(changes, fmt.Sprintf("referralCount %d -> %d", user.ReferralCount, *upd.ReferralCount))
			user.ReferralCount = *upd.ReferralCount
		}
		if len(updates) == 0 {
			return newError(KindValidation, "nothing to update")
		}

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update user: %w", err)
		}

		var err error
		activity, err = appendActivity(tx, &adminID,
			fmt.Sprintf("Edited user %s", user.Email), "Completed",
			strPtr(strings.Join(changes, "; ")))
		return err
	})
	if err != nil {
		return nil, err
	}
	publishActivities(activity)
	return &user, nil
}

type UserFilter struct {
	Search string
	Limit  int
	Offset int
}

func ListUsers(db *gorm.DB, f UserFilter) ([]models.User, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(f.Search); s != "" {
			term := "%" + strings.ToLower(s) + "%"
			return q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR referral_code = ?", term, term, strings.ToUpper(s))
		}
		return q
	}

	var total int64
	if err := filter(db.Model(&models.User{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []models.User
	if err := filter(db.Model(&models.User{})).Order("created_at desc").Limit(f.Limit).Offset(f.Offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

type DashboardStats struct {
	TotalUsers       int64  `json:"totalUsers"`
	AvailableNumbers int64  `json:"availableNumbers"`
	SoldNumbers      int64  `json:"soldNumbers"`
	PendingOrders    int64  `json:"pendingOrders"`
	CompletedOrders  int64  `json:"completedOrders"`
	PendingPayments  int64  `json:"pendingPayments"`
	PendingKyc       int64  `json:"pendingKyc"`
	TotalRevenue     string `json:"totalRevenue"`
	TotalDeposits    string `json:"totalDeposits"`
}

func GetDashboardStats(db *gorm.DB) (*DashboardStats, error) {
	var stats DashboardStats
	counts := []struct {
		dest  *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&stats.TotalUsers, &models.User{}, "", nil},
		{&stats.AvailableNumbers, &models.PhoneNumber{}, "is_available = ?", []interface{}{true}},
		{&stats.SoldNumbers, &models.PhoneNumber{}, "is_available = ?", []interface{}{false}},
		{&stats.PendingOrders, &models.Order{}, "status = ?", []interface{}{models.OrderStatusPending}},
		{&stats.CompletedOrders, &models.Order{}, "status = ?", []interface{}{models.OrderStatusCompleted}},
		{&stats.PendingPayments, &models.Payment{}, "status = ?", []interface{}{models.PaymentStatusPending}},
		{&stats.PendingKyc, &models.Kyc{}, "status = ?", []interface{}{models.KycStatusPending}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("dashboard counts: %w", err)
		}
	}

	revenue, err := sumDecimal(db.Model(&models.Order{}).Where("status <> ?", models.OrderStatusRejected), "total_amount")
	if err != nil {
		return nil, err
	}
	deposits, err := sumDecimal(db.Model(&models.Payment{}).Where("status = ? AND order_id IS NULL", models.PaymentStatusCompleted), "amount")
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.StringFixed(2)
	stats.TotalDeposits = deposits.StringFixed(2)
	return &stats, nil
}

func sumDecimal(q *gorm.DB, column string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := q.Select(fmt.Sprintf("SUM(%s)", column)).Row().Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", column, err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
