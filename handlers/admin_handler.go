package handlers

import (
	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/notifications"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/gofiber/fiber/v2"
)

type PaymentDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed rejected"`
}

type KycDecisionRequest struct {
	Status     string  `json:"status" validate:"required,oneof=pending approved rejected"`
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=2000"`
}

func AdminListUsers(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)
	users, total, err := services.ListUsers(database.DB, services.UserFilter{
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, users, total, page, limit)
}

func AdminUpdateUser(c *fiber.Ctx) error {
	adminID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	userID, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	var req services.AdminUserUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	user, err := services.AdminUpdateUser(database.DB, adminID, userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func AdminListOrders(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)
	orders, total, err := services.ListOrders(database.DB, services.OrderFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, orders, total, page, limit)
}

func AdminUpdateOrder(c *fiber.Ctx) error {
	adminID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	orderID, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}

	var req services.AdminOrderUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	result, err := services.AdminUpdateOrder(database.DB, adminID, orderID, req)
	if err != nil {
		return respondError(c, err)
	}

	if result.JustCompleted && result.Order.User != nil {
		user := *result.Order.User
		subject, body := notifications.OrderCompletedEmail(user, result.Order)
		go notifications.SendEmail(user.FullName, user.Email, subject, body)
	}
	return c.JSON(result.Order)
}

func AdminListPayments(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)
	payments, total, err := services.ListPayments(database.DB, services.PaymentFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, payments, total, page, limit)
}

func AdminUpdatePayment(c *fiber.Ctx) error {
	adminID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	paymentID, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid payment ID")
	}

	var req PaymentDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := services.AdminUpdatePayment(database.DB, adminID, paymentID, req.Status)
	if err != nil {
		return respondError(c, err)
	}

	if !result.AlreadyProcessed {
		if subject, body := notifications.PaymentDecisionEmail(result.User, result.Payment); subject != "" {
			go notifications.SendEmail(result.User.FullName, result.User.Email, subject, body)
		}
	}
	return c.JSON(fiber.Map{
		"payment":          result.Payment,
		"alreadyProcessed": result.AlreadyProcessed,
		"credited":         result.Credited,
		"orderCompleted":   result.OrderCompleted,
		"balance":          result.User.Balance,
	})
}

func AdminListKyc(c *fiber.Ctx) error {
	records, err := services.ListKyc(database.DB, c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(records)
}

func AdminUpdateKyc(c *fiber.Ctx) error {
	adminID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	kycID, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid KYC ID")
	}

	var req KycDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := services.AdminUpdateKyc(database.DB, adminID, kycID, req.Status, req.AdminNotes)
	if err != nil {
		return respondError(c, err)
	}

	if subject, body := notifications.KycDecisionEmail(result.User, result.Kyc); subject != "" {
		go notifications.SendEmail(result.User.FullName, result.User.Email, subject, body)
	}
	return c.JSON(fiber.Map{
		"kyc":  result.Kyc,
		"user": result.User,
	})
}

func AdminListPhoneNumbers(c *fiber.Ctx) error {
	numbers, err := services.ListAllPhoneNumbers(database.DB)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(numbers)
}

func AdminCreatePhoneNumber(c *fiber.Ctx) error {
	adminID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req services.PhoneNumberInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	number, err := services.CreatePhoneNumber(database.DB, adminID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(number)
}

func AdminUpdatePhoneNumber(c *fiber.Ctx) error {
	adminID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid phone number ID")
	}
	var req services.PhoneNumberUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	number, err := services.UpdatePhoneNumber(database.DB, adminID, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(number)
}

func AdminDeletePhoneNumber(c *fiber.Ctx) error {
	adminID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid phone number ID")
	}
	if err := services.DeletePhoneNumber(database.DB, adminID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func AdminGetSettings(c *fiber.Ctx) error {
	settings, err := services.LoadSettings(database.DB)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

func AdminUpdateSettings(c *fiber.Ctx) error {
	adminID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req services.SettingsUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON: settings must use their typed values")
	}
	settings, err := services.UpdateSettings(database.DB, adminID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

func AdminListActivities(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)
	activities, total, err := services.ListActivities(database.DB, nil, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, activities, total, page, limit)
}

func AdminGetStats(c *fiber.Ctx) error {
	stats, err := services.GetDashboardStats(database.DB)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
