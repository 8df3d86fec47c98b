package handlers

import (
	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/gofiber/fiber/v2"
)

func ListMyActivities(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	page, limit, offset := pagination(c)
	activities, total, err := services.ListActivities(database.DB, &userID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, activities, total, page, limit)
}

func GetReferralSummary(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := services.GetReferralSummary(database.DB, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
