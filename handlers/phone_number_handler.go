package handlers

import (
	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/gofiber/fiber/v2"
)

func ListPhoneNumbers(c *fiber.Ctx) error {
	numbers, err := services.ListAvailablePhoneNumbers(database.DB, services.CatalogFilter{
		Country: c.Query("country"),
		Service: c.Query("service"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(numbers)
}

func GetPhoneNumber(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid phone number ID")
	}
	number, err := services.GetPhoneNumber(database.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(number)
}
