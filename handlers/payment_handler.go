package handlers

import (
	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Method    string          `json:"method" validate:"required,max=50"`
	OrderID   *string         `json:"orderId" validate:"omitempty,uuid"`
	Reference *string         `json:"reference" validate:"omitempty,max=255"`
}

func CreatePayment(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	in := services.CreatePaymentInput{
		UserID:    userID,
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
	}
	if req.OrderID != nil && *req.OrderID != "" {
		orderID := uuid.MustParse(*req.OrderID)
		in.OrderID = &orderID
	}

	payment, err := services.CreatePayment(database.DB, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

func ListMyPayments(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	payments, err := services.ListUserPayments(database.DB, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payments)
}
