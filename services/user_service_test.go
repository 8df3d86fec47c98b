package services

import (
	"testing"

	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAdminUpdateUser(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, func(u *models.User) { u.IsAdmin = true })
	user := createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(10) })

	balance := decimal.RequireFromString("250.75")
	banned, count := true, 3
	updated, err := AdminUpdateUser(db, admin.ID, user.ID, AdminUserUpdate{
		Balance:       &balance,
		IsBanned:      &banned,
		ReferralCount: &count,
	})
	require.NoError(t, err)
	require.True(t, updated.IsBanned)

	after := reloadUser(t, db, user.ID)
	requireMoney(t, "250.75", after.Balance)
	require.True(t, after.IsBanned)
	require.Equal(t, 3, after.ReferralCount)
	require.False(t, after.IsAdmin)
	require.EqualValues(t, 1, countActivities(t, db, admin.ID, "Edited user "+user.Email))
}

func TestAdminUpdateUserValidation(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, func(u *models.User) { u.IsAdmin = true })
	user := createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(10) })

	negative := decimal.NewFromInt(-1)
	_, err := AdminUpdateUser(db, admin.ID, user.ID, AdminUserUpdate{Balance: &negative})
	requireKind(t, err, KindValidation)

	huge := decimal.New(1, 10)
	_, err = AdminUpdateUser(db, admin.ID, user.ID, AdminUserUpdate{Balance: &huge})
	requireKind(t, err, KindValidation)

	negativeCount := -4
	_, err = AdminUpdateUser(db, admin.ID, user.ID, AdminUserUpdate{ReferralCount: &negativeCount})
	requireKind(t, err, KindValidation)

	_, err = AdminUpdateUser(db, admin.ID, user.ID, AdminUserUpdate{})
	requireKind(t, err, KindValidation)

	promote := true
	_, err = AdminUpdateUser(db, admin.ID, uuid.New(), AdminUserUpdate{IsAdmin: &promote})
	requireKind(t, err, KindNotFound)

	requireMoney(t, "10", reloadUser(t, db, user.ID).Balance)
}

func TestListUsersSearch(t *testing.T) {
	db := setupDB(t)
	createUser(t, db, func(u *models.User) {
		u.FullName = "Grace Hopper"
		u.Email = "grace@example.com"
	})
	createUser(t, db, func(u *models.User) {
		u.FullName = "Alan Turing"
		u.Email = "alan@example.com"
	})

	users, total, err := ListUsers(db, UserFilter{Search: "grace", Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Grace Hopper", users[0].FullName)

	_, total, err = ListUsers(db, UserFilter{Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestGetDashboardStats(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, func(u *models.User) { u.IsAdmin = true })
	buyer := createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(1000) })
	sold := createPhoneNumber(t, db, "300")
	createPhoneNumber(t, db, "150")

	_, err := CreateOrder(db, CreateOrderInput{UserID: buyer.ID, PhoneNumberID: sold.ID})
	require.NoError(t, err)
	topUp, err := CreatePayment(db, CreatePaymentInput{UserID: buyer.ID, Amount: decimal.NewFromInt(500), Method: "bank_transfer"})
	require.NoError(t, err)
	_, err = CreatePayment(db, CreatePaymentInput{UserID: buyer.ID, Amount: decimal.NewFromInt(20), Method: "bank_transfer"})
	require.NoError(t, err)
	_, err = AdminUpdatePayment(db, admin.ID, topUp.ID, models.PaymentStatusCompleted)
	require.NoError(t, err)

	stats, err := GetDashboardStats(db)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.TotalUsers)
	require.EqualValues(t, 1, stats.AvailableNumbers)
	require.EqualValues(t, 1, stats.SoldNumbers)
	require.EqualValues(t, 1, stats.PendingOrders)
	require.EqualValues(t, 1, stats.PendingPayments)
	require.Equal(t, "300.00", stats.TotalRevenue)
	require.Equal(t, "500.00", stats.TotalDeposits)
}
