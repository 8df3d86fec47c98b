package routes

import (
	"github.com/darlington872/lastman55444-sub000/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/phone-numbers", handlers.ListPhoneNumbers)
	api.Get("/phone-numbers/:id", handlers.GetPhoneNumber)
}
