package handlers

import (
	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	PhoneNumberID    string `json:"phoneNumberId" validate:"required,uuid"`
	IsReferralReward bool   `json:"isReferralReward"`
	PaymentMethod    string `json:"paymentMethod" validate:"omitempty,max=50"`
}

func CreateOrder(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" && !req.IsReferralReward {
		paymentMethod = "balance"
	}

	result, err := services.CreateOrder(database.DB, services.CreateOrderInput{
		UserID:           userID,
		PhoneNumberID:    uuid.MustParse(req.PhoneNumberID),
		IsReferralReward: req.IsReferralReward,
		PaymentMethod:    paymentMethod,
	})
	if err != nil {
		return respondError(c, err)
	}

	// The caller's own row is embedded in the order; expose it once at the top level.
	user := result.Order.User
	result.Order.User = nil
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":         result.Order,
		"contact":       result.Contact,
		"balance":       user.Balance,
		"referralCount": user.ReferralCount,
	})
}

func ListMyOrders(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	orders, err := services.ListUserOrders(database.DB, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}
