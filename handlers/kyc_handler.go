package handlers

import (
	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/gofiber/fiber/v2"
)

func SubmitKyc(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req services.KycSubmission
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	kyc, err := services.SubmitKyc(database.DB, userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(kyc)
}

func GetMyKyc(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	kyc, err := services.GetUserKyc(database.DB, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(kyc)
}
