package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderCashPurchase(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(500) })
	phone := createPhoneNumber(t, db, "300")

	result, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID, PaymentMethod: "balance"})
	require.NoError(t, err)

	require.Equal(t, models.OrderStatusPending, result.Order.Status)
	require.False(t, result.Order.IsReferralReward)
	require.Nil(t, result.Order.Code)
	requireMoney(t, "300", result.Order.TotalAmount)

	requireMoney(t, "200", reloadUser(t, db, user.ID).Balance)
	require.False(t, reloadPhoneNumber(t, db, phone.ID).IsAvailable)
	require.EqualValues(t, 1, countActivities(t, db, user.ID, "Purchased United States number "+phone.Number))
}

func TestCreateOrderInsufficientBalanceChangesNothing(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(100) })
	phone := createPhoneNumber(t, db, "300")

	_, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID})
	le := requireKind(t, err, KindInsufficientBalance)
	requireMoney(t, "100", le.Current.(decimal.Decimal))
	requireMoney(t, "300", le.Required.(decimal.Decimal))

	requireMoney(t, "100", reloadUser(t, db, user.ID).Balance)
	require.True(t, reloadPhoneNumber(t, db, phone.ID).IsAvailable)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestCreateOrderExactBalance(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, func(u *models.User) { u.Balance = decimal.RequireFromString("12.50") })
	phone := createPhoneNumber(t, db, "12.50")

	_, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID})
	require.NoError(t, err)
	requireMoney(t, "0", reloadUser(t, db, user.ID).Balance)
}

func TestCreateOrderUnavailable(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(1000) })
	phone := createPhoneNumber(t, db, "300")
	require.NoError(t, db.Model(&phone).Update("is_available", false).Error)

	_, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID})
	requireKind(t, err, KindUnavailable)
	requireMoney(t, "1000", reloadUser(t, db, user.ID).Balance)
}

func TestCreateOrderNotFound(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, nil)
	phone := createPhoneNumber(t, db, "1")

	_, err := CreateOrder(db, CreateOrderInput{UserID: uuid.New(), PhoneNumberID: phone.ID})
	requireKind(t, err, KindNotFound)

	_, err = CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: uuid.New()})
	requireKind(t, err, KindNotFound)
}

func TestCreateOrderReferralClaim(t *testing.T) {
	tests := []struct {
		name      string
		referrals int
		remaining int
	}{
		{name: "exact threshold", referrals: 20, remaining: 0},
		{name: "excess rolls over", referrals: 25, remaining: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := setupDB(t)
			user := createUser(t, db, func(u *models.User) {
				u.ReferralCount = tc.referrals
				u.KycStatus = models.KycStatusApproved
				u.Balance = decimal.NewFromInt(7)
			})
			phone := createPhoneNumber(t, db, "300")

			result, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID, IsReferralReward: true})
			require.NoError(t, err)
			require.True(t, result.Order.IsReferralReward)
			require.Equal(t, "referral", result.Order.PaymentMethod)
			require.True(t, result.Order.TotalAmount.IsZero())

			after := reloadUser(t, db, user.ID)
			require.Equal(t, tc.remaining, after.ReferralCount)
			requireMoney(t, "7", after.Balance)
			require.True(t, reloadPhoneNumber(t, db, phone.ID).IsAvailable)
			require.EqualValues(t, 1, countActivities(t, db, user.ID, "Claimed free number with referrals"))
		})
	}
}

func TestCreateOrderReferralClaimConsumesStockWhenEnabled(t *testing.T) {
	db := setupDB(t)
	setSetting(t, db, SettingReferralClaimConsumesStock, "true")
	user := createUser(t, db, func(u *models.User) {
		u.ReferralCount = 20
		u.KycStatus = models.KycStatusApproved
	})
	phone := createPhoneNumber(t, db, "300")

	_, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID, IsReferralReward: true})
	require.NoError(t, err)
	require.False(t, reloadPhoneNumber(t, db, phone.ID).IsAvailable)
}

func TestCreateOrderInsufficientReferrals(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, func(u *models.User) {
		u.ReferralCount = 19
		u.KycStatus = models.KycStatusApproved
	})
	phone := createPhoneNumber(t, db, "300")

	_, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID, IsReferralReward: true})
	le := requireKind(t, err, KindInsufficientReferrals)
	require.Equal(t, 19, le.Current)
	require.Equal(t, 20, le.Required)
	require.Equal(t, 19, reloadUser(t, db, user.ID).ReferralCount)
}

func TestCreateOrderReferralThresholdFromSettings(t *testing.T) {
	db := setupDB(t)
	setSetting(t, db, SettingReferralsNeeded, "5")
	user := createUser(t, db, func(u *models.User) {
		u.ReferralCount = 6
		u.KycStatus = models.KycStatusApproved
	})
	phone := createPhoneNumber(t, db, "300")

	_, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID, IsReferralReward: true})
	require.NoError(t, err)
	require.Equal(t, 1, reloadUser(t, db, user.ID).ReferralCount)
}

func TestCreateOrderKycRequiredRegardlessOfReferrals(t *testing.T) {
	for _, count := range []int{0, 20, 40} {
		t.Run(fmt.Sprintf("%d referrals", count), func(t *testing.T) {
			db := setupDB(t)
			user := createUser(t, db, func(u *models.User) { u.ReferralCount = count })
			phone := createPhoneNumber(t, db, "300")

			_, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID, IsReferralReward: true})
			requireKind(t, err, KindKycRequired)
			require.Equal(t, count, reloadUser(t, db, user.ID).ReferralCount)
		})
	}
}

func TestCreateOrderKycGateDisabled(t *testing.T) {
	db := setupDB(t)
	setSetting(t, db, SettingKycRequiredForReferral, "false")
	user := createUser(t, db, func(u *models.User) { u.ReferralCount = 20 })
	phone := createPhoneNumber(t, db, "300")

	_, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID, IsReferralReward: true})
	require.NoError(t, err)
	require.Zero(t, reloadUser(t, db, user.ID).ReferralCount)
}

func TestCreateOrderConcurrentBuyersGetOneNumber(t *testing.T) {
	db := setupDB(t)
	phone := createPhoneNumber(t, db, "300")
	buyers := make([]models.User, 4)
	for i := range buyers {
		buyers[i] = createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(500) })
	}

	var wg sync.WaitGroup
	errs := make([]error, len(buyers))
	for i, buyer := range buyers {
		wg.Add(1)
		go func(i int, buyer models.User) {
			defer wg.Done()
			_, errs[i] = CreateOrder(db, CreateOrderInput{UserID: buyer.ID, PhoneNumberID: phone.ID})
		}(i, buyer)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range errs {
		if err == nil {
			succeeded++
			requireMoney(t, "200", reloadUser(t, db, buyers[i].ID).Balance)
			continue
		}
		require.Equal(t, KindUnavailable, KindOf(err))
		requireMoney(t, "500", reloadUser(t, db, buyers[i].ID).Balance)
	}
	require.Equal(t, 1, succeeded)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.EqualValues(t, 1, orders)
}

func TestCreateOrderContactLink(t *testing.T) {
	db := setupDB(t)
	setSetting(t, db, SettingSupportWhatsApp, "2348012345678")
	user := createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(500) })
	phone := createPhoneNumber(t, db, "300")

	result, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID})
	require.NoError(t, err)
	require.Contains(t, result.Contact.Message, result.Order.ID.String())
	require.Contains(t, result.Contact.Message, "300.00")
	require.True(t, strings.HasPrefix(result.Contact.WhatsAppURL, "https://wa.me/2348012345678?text="))
}

func TestCreateOrderPublishesActivityAfterCommit(t *testing.T) {
	db := setupDB(t)
	var published []models.Activity
	ActivityPublisher = func(a models.Activity) { published = append(published, a) }
	t.Cleanup(func() { ActivityPublisher = nil })

	user := createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(500) })
	phone := createPhoneNumber(t, db, "300")
	_, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID})
	require.NoError(t, err)

	require.Len(t, published, 1)
	require.Equal(t, user.ID, *published[0].UserID)

	_, err = CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID})
	requireKind(t, err, KindUnavailable)
	require.Len(t, published, 1)
}

func TestAdminUpdateOrder(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, func(u *models.User) { u.IsAdmin = true })
	user := createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(500) })
	phone := createPhoneNumber(t, db, "300")
	created, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID})
	require.NoError(t, err)

	_, err = AdminUpdateOrder(db, admin.ID, created.Order.ID, AdminOrderUpdate{})
	requireKind(t, err, KindValidation)

	bogus := "shipped"
	_, err = AdminUpdateOrder(db, admin.ID, created.Order.ID, AdminOrderUpdate{Status: &bogus})
	requireKind(t, err, KindValidation)

	completed, code := models.OrderStatusCompleted, "482913"
	result, err := AdminUpdateOrder(db, admin.ID, created.Order.ID, AdminOrderUpdate{Status: &completed, Code: &code})
	require.NoError(t, err)
	require.True(t, result.JustCompleted)
	require.Equal(t, models.OrderStatusCompleted, result.Order.Status)
	require.Equal(t, code, *result.Order.Code)
	require.NotNil(t, result.Order.User)
	require.NotNil(t, result.Order.PhoneNumber)

	result, err = AdminUpdateOrder(db, admin.ID, created.Order.ID, AdminOrderUpdate{Status: &completed})
	require.NoError(t, err)
	require.False(t, result.JustCompleted)
	require.EqualValues(t, 1, countActivities(t, db, user.ID, "Order fulfilled"))

	// Order changes never touch money or stock.
	requireMoney(t, "200", reloadUser(t, db, user.ID).Balance)
	require.False(t, reloadPhoneNumber(t, db, phone.ID).IsAvailable)

	_, err = AdminUpdateOrder(db, admin.ID, uuid.New(), AdminOrderUpdate{Code: &code})
	requireKind(t, err, KindNotFound)
}

func TestListOrders(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, func(u *models.User) { u.Balance = decimal.NewFromInt(1000) })
	for i := 0; i < 3; i++ {
		phone := createPhoneNumber(t, db, "100")
		_, err := CreateOrder(db, CreateOrderInput{UserID: user.ID, PhoneNumberID: phone.ID})
		require.NoError(t, err)
	}

	mine, err := ListUserOrders(db, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	require.NotNil(t, mine[0].PhoneNumber)

	page, total, err := ListOrders(db, OrderFilter{Status: models.OrderStatusPending, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, page, 2)

	_, total, err = ListOrders(db, OrderFilter{Status: models.OrderStatusCompleted, Limit: 10})
	require.NoError(t, err)
	require.Zero(t, total)
}
